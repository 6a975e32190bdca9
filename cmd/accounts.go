package cmd

import (
	"fmt"
	"strings"

	"github.com/racman-io/racman/internal/util"
	"github.com/racman-io/racman/pkg/bmc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	accountCreate      string
	accountSetPassword string
	accountRole        string
)

// The `accounts` command manages local BMC users. Creation picks the
// first free slot automatically (slots 0 and 1 are reserved by the
// controller) and is safe to repeat: an existing name is a no-op.
var accountsCmd = &cobra.Command{
	Use: "accounts host...",
	Example: `  // list local accounts
  racman accounts bmc1
  // create an operator account fleet-wide
  racman accounts -f hosts.txt --create deploy --role Operator
  // rotate a password
  racman accounts bmc1 --set-password deploy`,
	Short: "Manage controller-local user accounts",
	Long: "List, create, and update local BMC accounts.\n" +
		"New accounts go into the first free slot; roles: " + strings.Join(bmc.Roles, ", ") + ".",
	RunE: func(cmd *cobra.Command, args []string) error {
		var newPassword string
		if accountCreate != "" || accountSetPassword != "" {
			// One prompt up front so a batch doesn't ask per controller.
			newPassword = viper.GetString("account-password")
			if newPassword == "" {
				var err error
				if newPassword, err = util.PromptPassword("new account"); err != nil {
					return err
				}
			}
		}
		return forEachTarget(args, func(c *bmc.Controller) error {
			switch {
			case accountCreate != "":
				slot, err := c.FindFreeSlot()
				if err != nil {
					return err
				}
				reply, err := c.CreateAccount(slot, accountCreate, newPassword, accountRole)
				if err != nil {
					return err
				}
				printReply(c, reply)
			case accountSetPassword != "":
				reply, err := c.SetPassword(accountSetPassword, newPassword)
				if err != nil {
					return err
				}
				printReply(c, reply)
			default:
				accounts, err := c.ListAccounts()
				if err != nil {
					return err
				}
				for _, a := range accounts {
					state := "disabled"
					if a.Enabled {
						state = "enabled"
					}
					fmt.Printf("%s: slot %d %s %q role %s\n", c.Name, a.ID, state, a.Name, a.Role)
				}
			}
			return nil
		})
	},
}

func init() {
	accountsCmd.Flags().StringVar(&accountCreate, "create", "", "Create an account with the given name")
	accountsCmd.Flags().StringVar(&accountSetPassword, "set-password", "", "Set the password of the named account")
	accountsCmd.MarkFlagsMutuallyExclusive("create", "set-password")
	accountsCmd.Flags().StringVar(&accountRole, "role", "Administrator", "Role for a new account")
	accountsCmd.Flags().StringVarP(&targetFile, "file", "f", "", "File with controller hostnames, one per line ('-' for stdin)")
	addFlag("account-password", accountsCmd, "account-password", "", "", "Password for the created/updated account (otherwise prompted)")
	rootCmd.AddCommand(accountsCmd)
}
