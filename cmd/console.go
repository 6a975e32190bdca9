package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// The `console` command opens the controller's web UI in the local
// browser. Login still happens there; we only know the address.
var consoleCmd = &cobra.Command{
	Use:     "console host",
	Args:    cobra.ExactArgs(1),
	Example: `  racman console bmc1`,
	Short:   "Open a controller's web console",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fmt.Sprintf("https://%s", args[0])
		fmt.Printf("opening %s\n", url)
		return browser.OpenURL(url)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
