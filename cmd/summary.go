package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	racman "github.com/racman-io/racman/internal"
	"github.com/racman-io/racman/internal/db/sqlite"
	"github.com/racman-io/racman/pkg/bmc"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The `summary` command prints the identity record of each controller and
// refreshes the local controller cache consumed by `list`.
var summaryCmd = &cobra.Command{
	Use: "summary host...",
	Example: `  racman summary bmc1
  racman summary -f hosts.txt --format json`,
	Short: "Show controller identity and state",
	Long:  "Query each controller for its hostname, service tag, power state, and health.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return forEachTarget(args, func(c *bmc.Controller) error {
			summary, err := c.Summary()
			if err != nil {
				return err
			}
			if strings.ToLower(viper.GetString("summary.format")) == "json" {
				b, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
			} else {
				fmt.Println(summary)
			}
			if err := sqlite.UpsertController(cachePath(), racman.RecordSummary(summary)); err != nil {
				log.Warn().Err(err).Msg("failed to update controller cache")
			}
			return nil
		})
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	addFlag("summary.format", summaryCmd, "format", "F", "text", "Set the output format (text|json)")
	rootCmd.AddCommand(summaryCmd)
}
