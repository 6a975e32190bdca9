package cmd

import (
	"github.com/racman-io/racman/pkg/daemon"
	"github.com/spf13/cobra"
)

// The `serve` command runs the automation daemon: the whole command
// tree over HTTP, one endpoint per command. Meant for a jump host that
// already holds the session cache and credential store; pair it with
// --require-token on anything reachable beyond localhost.
var serveCmd = &cobra.Command{
	Use:  "serve",
	Args: cobra.NoArgs,
	Example: `  racman serve
  racman serve --endpoint 0.0.0.0:8372 --require-token`,
	Short: "Serve the command tree over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemon.RunServer(rootCmd)
	},
}

func init() {
	addFlag("daemon.endpoint", serveCmd, "endpoint", "", "127.0.0.1:8372", "Set the listen address")
	addFlag("daemon.require-token", serveCmd, "require-token", "", false, "Require a valid bearer JWT on every request")
	rootCmd.AddCommand(serveCmd)
}
