// The cmd package implements the racman CLI. Files here only handle
// argument parsing and hand off to the internal API and the session/job
// engine in pkg/bmc.
//
// For example:
//
//	cmd/power.go    --> pkg/bmc ( Controller.TurnOn() ... )
//	cmd/inventory.go --> internal/inventory.go ( racman.QueryInventory() )
//	cmd/list.go     --> internal/db/sqlite ( cached controller rows )
package cmd

import (
	"fmt"
	"os"

	racman "github.com/racman-io/racman/internal"
	ilog "github.com/racman-io/racman/internal/log"
	"github.com/racman-io/racman/internal/util"
	"github.com/racman-io/racman/pkg/bmc"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logLevel = ilog.WARN

// The `root` command doesn't do anything on its own except display a help
// message and then exits.
var rootCmd = &cobra.Command{
	Use:   "racman",
	Short: "Redfish-based BMC lifecycle manager",
	Long: "Manage out-of-band controllers over their Redfish API: power, boot\n" +
		"order, virtual media, local accounts, and asynchronous job tracking,\n" +
		"with cached sessions and credentials.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("failed to print help")
			}
			os.Exit(0)
		}
	},
}

// Execute is called from main to run the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitializeConfig, initializeLogging)
	rootCmd.PersistentFlags().IntP("timeout", "t", 30, "Set the timeout for controller requests in seconds")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Set the config file path")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Set the logging level (debug|info|warn|error|disabled|trace)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to the given file")
	rootCmd.PersistentFlags().BoolP("insecure", "i", false, "Ignore SSL errors when talking to controllers")
	rootCmd.PersistentFlags().StringP("login", "l", "root", "Set the controller account to log in as")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Set the controller password (otherwise prompted)")
	rootCmd.PersistentFlags().Int("max-password-attempts", 0, "Bound the wrong-password retry loop (0 = unbounded)")
	rootCmd.PersistentFlags().String("session-file", bmc.DefaultSessionPath(), "Set the session token cache path")
	rootCmd.PersistentFlags().String("secrets-file", "", "Set the path to the credential store")
	rootCmd.PersistentFlags().String("cache", fmt.Sprintf("/tmp/%s/racman/controllers.db", util.GetCurrentUsername()), "Set the controller cache path")
	rootCmd.PersistentFlags().Int("wait-timeout", 0, "Bound job waits in seconds (0 = unbounded)")

	// bind viper config flags with cobra
	checkBindFlagError(viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout")))
	checkBindFlagError(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	checkBindFlagError(viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")))
	checkBindFlagError(viper.BindPFlag("insecure", rootCmd.PersistentFlags().Lookup("insecure")))
	checkBindFlagError(viper.BindPFlag("login", rootCmd.PersistentFlags().Lookup("login")))
	checkBindFlagError(viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password")))
	checkBindFlagError(viper.BindPFlag("max-password-attempts", rootCmd.PersistentFlags().Lookup("max-password-attempts")))
	checkBindFlagError(viper.BindPFlag("session-file", rootCmd.PersistentFlags().Lookup("session-file")))
	checkBindFlagError(viper.BindPFlag("secrets-file", rootCmd.PersistentFlags().Lookup("secrets-file")))
	checkBindFlagError(viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache")))
	checkBindFlagError(viper.BindPFlag("wait-timeout", rootCmd.PersistentFlags().Lookup("wait-timeout")))
	checkBindFlagError(viper.BindEnv("password", "RACMAN_PASSWORD"))
	checkBindFlagError(viper.BindEnv("login", "RACMAN_LOGIN"))
}

// addFlag registers a command flag and binds it to a viper key in one go.
func addFlag(key string, cmd *cobra.Command, name, shorthand string, value any, usage string) {
	switch v := value.(type) {
	case string:
		cmd.Flags().StringP(name, shorthand, v, usage)
	case bool:
		cmd.Flags().BoolP(name, shorthand, v, usage)
	case int:
		cmd.Flags().IntP(name, shorthand, v, usage)
	default:
		log.Error().Msgf("unsupported flag type for %s", name)
		return
	}
	checkBindFlagError(viper.BindPFlag(key, cmd.Flags().Lookup(name)))
}

func checkBindFlagError(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}

// InitializeConfig loads the config file given by --config, or looks for
// one under the user config directory.
func InitializeConfig() {
	viper.AutomaticEnv()
	if viper.IsSet("config") && viper.GetString("config") != "" {
		if err := racman.LoadConfig(viper.GetString("config")); err != nil {
			log.Error().Err(err).Msg("failed to load config")
		}
		return
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = "$HOME/.config"
	}
	viper.AddConfigPath(configDir + "/racman")
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Error().Err(err).Msg("failed to load config")
		}
	}
}

func initializeLogging() {
	if err := ilog.InitWithLogLevel(logLevel, viper.GetString("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
}
