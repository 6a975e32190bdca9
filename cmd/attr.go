package cmd

import (
	"fmt"
	"strings"

	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
)

var attrSet []string

// The `attr` command reads or writes the flat attribute bags the
// controller exposes per subsystem (idrac, bios, system, lifecycle).
var attrCmd = &cobra.Command{
	Use:  "attr host subsystem [attribute]",
	Args: cobra.RangeArgs(2, 3),
	Example: `  racman attr bmc1 idrac
  racman attr bmc1 idrac NIC.1.DNSRacName
  racman attr bmc1 idrac --set NIC.1.DNSRacName=bmc1 --set Time.1.Timezone=UTC`,
	Short: "Read or write controller attributes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectController(args[0])
		if err != nil {
			return err
		}
		if len(attrSet) > 0 {
			attributes := make(map[string]any, len(attrSet))
			for _, pair := range attrSet {
				key, value, found := strings.Cut(pair, "=")
				if !found || key == "" {
					return fmt.Errorf("attribute must be key=value, got %q", pair)
				}
				attributes[key] = value
			}
			reply, err := c.SetAttributes(args[1], attributes)
			if err != nil {
				return err
			}
			printReply(c, reply)
			return nil
		}
		attribute := ""
		if len(args) == 3 {
			attribute = args[2]
		}
		body, err := c.GetAttributes(args[1], attribute)
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

// The `comment` command drops an operator note into the controller's
// lifecycle log, so after-the-fact audits can see who did what.
var commentCmd = &cobra.Command{
	Use:     "comment host text",
	Args:    cobra.ExactArgs(2),
	Example: `  racman comment bmc1 "replaced DIMM B2"`,
	Short:   "Record a comment in the lifecycle log",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectController(args[0])
		if err != nil {
			return err
		}
		reply, err := c.InsertComment(args[1])
		if err != nil {
			return err
		}
		printReply(c, reply)
		return nil
	},
}

func init() {
	attrCmd.Flags().StringArrayVar(&attrSet, "set", nil, fmt.Sprintf("Set an attribute as key=value (subsystems: %s)", strings.Join(bmc.Subsystems(), ", ")))
	rootCmd.AddCommand(attrCmd)
	rootCmd.AddCommand(commentCmd)
}
