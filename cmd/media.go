package cmd

import (
	"fmt"

	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
)

var (
	mediaMount string
	mediaEject bool
)

// The `media` command lists, mounts, or ejects virtual media. Without
// flags it shows every device and what is in it.
var mediaCmd = &cobra.Command{
	Use: "media host...",
	Example: `  racman media bmc1
  racman media bmc1 --mount http://imgsrv/talos.iso
  racman media bmc1 --eject`,
	Short: "Manage virtual CD/DVD/ISO media",
	RunE: func(cmd *cobra.Command, args []string) error {
		return forEachTarget(args, func(c *bmc.Controller) error {
			switch {
			case mediaMount != "":
				reply, err := c.MountVirtual(mediaMount)
				if err != nil {
					return err
				}
				printReply(c, reply)
			case mediaEject:
				reply, err := c.EjectVirtual()
				if err != nil {
					return err
				}
				printReply(c, reply)
			default:
				devices, err := c.VirtualMedia()
				if err != nil {
					return err
				}
				for _, d := range devices {
					fmt.Printf("%s: %s\n", c.Name, d)
				}
			}
			return nil
		})
	},
}

func init() {
	mediaCmd.Flags().StringVar(&mediaMount, "mount", "", "Mount the ISO at the given URL")
	mediaCmd.Flags().BoolVar(&mediaEject, "eject", false, "Eject the mounted media")
	mediaCmd.MarkFlagsMutuallyExclusive("mount", "eject")
	mediaCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	rootCmd.AddCommand(mediaCmd)
}
