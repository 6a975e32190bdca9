package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	bootVirtual bool
	bootPXE     bool
	bootWait    bool
)

// The `boot` command stages a one-shot boot override through the
// controller's configuration import job. With --wait it blocks until the
// job completes.
var bootCmd = &cobra.Command{
	Use: "boot host...",
	Example: `  // boot off the virtual CD next time
  racman boot bmc1 --virtual
  // PXE boot and wait for the staging job
  racman boot bmc1 --pxe --wait`,
	Short: "Set the next boot device",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !bootVirtual && !bootPXE {
			return fmt.Errorf("one of --virtual or --pxe is required")
		}
		return forEachTarget(args, func(c *bmc.Controller) error {
			var (
				reply bmc.CommandReply
				err   error
			)
			if bootVirtual {
				reply, err = c.NextBootVirtual()
			} else {
				reply, err = c.NextBootPXE()
			}
			if err != nil {
				return err
			}
			printReply(c, reply)
			if bootWait && reply.Succeeded && reply.Job != 0 {
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

// waitForJob wraps Controller.WaitFor with the configured wait bound.
func waitForJob(c *bmc.Controller, job int, allowMissing bool) (bmc.JobStatus, error) {
	ctx := context.Background()
	if timeout := viper.GetInt("wait-timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	return c.WaitFor(ctx, job, allowMissing)
}

func init() {
	bootCmd.Flags().BoolVar(&bootVirtual, "virtual", false, "Boot off the virtual CD/DVD device next")
	bootCmd.Flags().BoolVar(&bootPXE, "pxe", false, "PXE boot next")
	bootCmd.MarkFlagsMutuallyExclusive("virtual", "pxe")
	bootCmd.Flags().BoolVarP(&bootWait, "wait", "w", false, "Wait for the staging job to complete")
	bootCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	rootCmd.AddCommand(bootCmd)
}
