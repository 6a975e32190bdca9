package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The `query` command issues a raw authenticated GET against any
// controller resource path, for poking at things no subcommand covers.
var queryCmd = &cobra.Command{
	Use:  "query host path",
	Args: cobra.ExactArgs(2),
	Example: `  racman query bmc1 /redfish/v1/Systems/System.Embedded.1
  racman query bmc1 '/redfish/v1/Chassis/System.Embedded.1/Thermal'`,
	Short: "Fetch a raw resource from a controller",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectController(args[0])
		if err != nil {
			return err
		}
		body, err := c.Query(args[1])
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
