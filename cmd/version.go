package cmd

import (
	"fmt"

	"github.com/racman-io/racman/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Args:  cobra.NoArgs,
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.VersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
