package cmd

import (
	"fmt"
	"os"

	"github.com/racman-io/racman/internal/util"
	"github.com/racman-io/racman/pkg/secrets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var secretsCmd = &cobra.Command{
	Use: "secrets",
	Example: `  // generate a key and point the store at a file
  export MASTER_KEY=$(racman secrets generatekey)
  racman --secrets-file ~/.racman-secrets.json secrets store root

  // from then on, connects use the cached password
  racman --secrets-file ~/.racman-secrets.json power bmc1`,
	Short: "Manage the controller credential store",
	Long:  "Manage the encrypted credential store the session broker reads login passwords from. The store is sealed with the MASTER_KEY environment variable.",
}

var secretsGenerateKeyCmd = &cobra.Command{
	Use:   "generatekey",
	Args:  cobra.NoArgs,
	Short: "Generate a new 32-byte master key (in hex)",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.GenerateMasterKey()
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var secretsStoreCmd = &cobra.Command{
	Use:   "store [account]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Cache the password for a login account",
	RunE: func(cmd *cobra.Command, args []string) error {
		account := viper.GetString("login")
		if len(args) == 1 {
			account = args[0]
		}
		password := viper.GetString("password")
		if password == "" {
			var err error
			password, err = util.PromptPassword(account)
			if err != nil {
				return err
			}
		}
		creds, err := openCredentialStore()
		if err != nil {
			return err
		}
		return creds.SetPassword(account, password)
	},
}

var secretsRetrieveCmd = &cobra.Command{
	Use:   "retrieve account",
	Args:  cobra.ExactArgs(1),
	Short: "Print the cached password for a login account",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := openCredentialStore()
		if err != nil {
			return err
		}
		password, err := creds.GetPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(password)
		return nil
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "List stored secret IDs (values stay encrypted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.OpenStore(viper.GetString("secrets-file"))
		if err != nil {
			return err
		}
		stored, err := store.ListSecrets()
		if err != nil {
			return err
		}
		for id := range stored {
			fmt.Println(id)
		}
		return nil
	},
}

var secretsRemoveCmd = &cobra.Command{
	Use:   "remove accounts...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Drop cached passwords for login accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := openCredentialStore()
		if err != nil {
			return err
		}
		for _, account := range args {
			if err := creds.DeletePassword(account); err != nil {
				fmt.Fprintf(os.Stderr, "failed to remove password for %s: %v\n", account, err)
			}
		}
		return nil
	},
}

func openCredentialStore() (*secrets.CredentialStore, error) {
	path := viper.GetString("secrets-file")
	if path == "" {
		return nil, fmt.Errorf("no credential store configured, set --secrets-file")
	}
	return secrets.OpenCredentialStore(path)
}

func init() {
	secretsCmd.AddCommand(secretsGenerateKeyCmd)
	secretsCmd.AddCommand(secretsStoreCmd)
	secretsCmd.AddCommand(secretsRetrieveCmd)
	secretsCmd.AddCommand(secretsListCmd)
	secretsCmd.AddCommand(secretsRemoveCmd)
	rootCmd.AddCommand(secretsCmd)
}
