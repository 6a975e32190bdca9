package cmd

import (
	"fmt"

	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
)

var (
	powerOn       bool
	powerOff      bool
	powerForceOff bool
)

// The `power` command reads or changes the power state of each target
// controller. Transitions are idempotent: a system already in the target
// state reports a no-op success instead of being reset again.
var powerCmd = &cobra.Command{
	Use: "power host...",
	Example: `  // show the current power state
  racman power bmc1
  // graceful shutdown across a batch
  racman power --off -f hosts.txt
  // cut power without waiting for the OS
  racman power --force-off bmc1`,
	Short: "Get and set controller power states",
	RunE: func(cmd *cobra.Command, args []string) error {
		return forEachTarget(args, func(c *bmc.Controller) error {
			var (
				reply bmc.CommandReply
				err   error
			)
			switch {
			case powerOn:
				reply, err = c.TurnOn()
			case powerOff:
				reply, err = c.TurnOff()
			case powerForceOff:
				reply, err = c.ForceOff()
			default:
				summary, err := c.Summary()
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", c.Name, summary.Power)
				return nil
			}
			if err != nil {
				return err
			}
			printReply(c, reply)
			return nil
		})
	},
}

func init() {
	powerCmd.Flags().BoolVar(&powerOn, "on", false, "Turn the system on")
	powerCmd.Flags().BoolVar(&powerOff, "off", false, "Shut the system down gracefully")
	powerCmd.Flags().BoolVar(&powerForceOff, "force-off", false, "Force the system off")
	powerCmd.MarkFlagsMutuallyExclusive("on", "off", "force-off")
	powerCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	rootCmd.AddCommand(powerCmd)
}
