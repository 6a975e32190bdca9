package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/racman-io/racman/internal/db/sqlite"
	"github.com/spf13/cobra"
)

var (
	listFormat string
	listForget string
)

// The `list` command shows the local controller cache: every controller
// racman has talked to, with the summary captured at last contact.
var listCmd = &cobra.Command{
	Use:  "list",
	Args: cobra.NoArgs,
	Example: `  racman list
  racman list --format json
  racman list --forget bmc1`,
	Short: "List cached controllers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listForget != "" {
			return sqlite.DeleteController(cachePath(), listForget)
		}
		records, err := sqlite.GetControllers(cachePath())
		if err != nil {
			return err
		}
		if listFormat == "json" {
			out, err := json.MarshalIndent(records, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "HOST\tIP\tSERVICE TAG\tPOWER\tHEALTH\tLAST SEEN")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Host, r.IP, r.ServiceTag, r.Power, r.Health, r.Timestamp.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Set the output format (text, json)")
	listCmd.Flags().StringVar(&listForget, "forget", "", "Drop one controller from the cache")
	rootCmd.AddCommand(listCmd)
}
