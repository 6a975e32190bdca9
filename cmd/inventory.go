package cmd

import (
	"fmt"

	racman "github.com/racman-io/racman/internal"
	"github.com/racman-io/racman/internal/log"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inventoryDrivers   []string
	inventoryPreferred string
	inventoryThreads   int
	inventoryMetadata  bool
	inventoryCertPool  string
	inventorySecureTLS bool
)

// The `inventory` command collects full hardware inventory through the
// bmclib driver stack. It authenticates per call with explicit
// credentials rather than the session broker: collection runs
// concurrently across the fleet, so no interactive prompt can be
// allowed to interleave.
var inventoryCmd = &cobra.Command{
	Use:  "inventory [hosts...]",
	Args: cobra.ArbitraryArgs,
	Example: `  racman inventory bmc1 -p hunter2
  racman inventory -f hosts.txt --threads 32 -p hunter2
  racman inventory bmc1 --metadata -p hunter2`,
	Short: "Collect hardware inventory from controllers",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := racman.ReadTargets(args, targetFile)
		if err != nil {
			return err
		}
		password := viper.GetString("password")
		if password == "" {
			password, err = racman.PromptOnce(viper.GetString("login"))
			if err != nil {
				return err
			}
		}

		l := log.NewLogr(zlog.Logger.Level(zerolog.WarnLevel))
		results := racman.RunConcurrent(inventoryThreads, targets, func(host string) string {
			q := &racman.InventoryParams{
				Host:         host,
				Username:     viper.GetString("login"),
				Password:     password,
				Timeout:      viper.GetInt("timeout"),
				CertPoolFile: inventoryCertPool,
				SecureTLS:    inventorySecureTLS,
				Drivers:      inventoryDrivers,
				Preferred:    inventoryPreferred,
			}
			client, err := racman.NewInventoryClient(&l, q)
			if err != nil {
				return fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			var out []byte
			if inventoryMetadata {
				out, err = racman.QueryMetadata(client, q)
			} else {
				out, err = racman.QueryInventory(client, q)
			}
			if err != nil {
				return fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			return string(out)
		})

		for _, host := range targets {
			fmt.Printf("%s: %s\n", host, results[host])
		}
		return nil
	},
}

func init() {
	inventoryCmd.Flags().StringSliceVar(&inventoryDrivers, "driver", []string{"gofish", "redfish"}, "Set the driver(s) and fallback drivers to query with")
	inventoryCmd.Flags().StringVar(&inventoryPreferred, "preferred-driver", "gofish", "Set the preferred driver")
	inventoryCmd.Flags().IntVar(&inventoryThreads, "threads", 0, "Set the collection worker count (0 = one per target)")
	inventoryCmd.Flags().BoolVar(&inventoryMetadata, "metadata", false, "Report which providers answered instead of the inventory")
	inventoryCmd.Flags().StringVar(&inventoryCertPool, "cert-pool", "", "Path to a CA cert pool file (defaults to system CAs)")
	inventoryCmd.Flags().BoolVar(&inventorySecureTLS, "secure-tls", false, "Verify controller TLS certificates")
	inventoryCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	rootCmd.AddCommand(inventoryCmd)
}
