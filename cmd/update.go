package cmd

import (
	"fmt"

	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
)

var (
	updateProtocol  string
	updateComponent string
	updateWait      bool
)

// The `update` command stages a firmware image on one or more
// controllers. The controller fetches the image itself; we only hand it
// the URI and, optionally, follow the resulting job.
var updateCmd = &cobra.Command{
	Use:  "update uri [hosts...]",
	Args: cobra.MinimumNArgs(1),
	Example: `  racman update http://repo/idrac-fw.exe bmc1
  racman update http://repo/bios.exe -f hosts.txt --wait`,
	Short: "Stage a firmware update on controllers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := bmc.UpdateConfig{
			ImageURI:         args[0],
			TransferProtocol: updateProtocol,
			Component:        updateComponent,
		}
		return forEachTarget(args[1:], func(c *bmc.Controller) error {
			reply, err := c.StartUpdate(cfg)
			if err != nil {
				return err
			}
			printReply(c, reply)
			if updateWait && reply.Succeeded && reply.Job != 0 {
				status, err := waitForJob(c, reply.Job, false)
				if err != nil {
					return err
				}
				fmt.Printf("%s: job %d finished (%d)\n", c.Name, reply.Job, status.Status)
			}
			return nil
		})
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateProtocol, "protocol", "HTTP", "Set the transfer protocol the controller fetches the image with")
	updateCmd.Flags().StringVar(&updateComponent, "component", "", "Name the component to update (BMC, BIOS)")
	updateCmd.Flags().BoolVarP(&updateWait, "wait", "w", false, "Wait for the staged update job to complete")
	updateCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	rootCmd.AddCommand(updateCmd)
}
