package racman

import (
	"errors"

	"github.com/racman-io/racman/internal/util"
	"github.com/racman-io/racman/pkg/bmc"
	"github.com/racman-io/racman/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// BuildBroker assembles a session broker from the viper configuration:
// session cache path, credential store, login account, TLS and retry
// policy. A broken session cache or locked credential store degrades to
// fresh logins and prompting rather than failing the command.
func BuildBroker() *bmc.Broker {
	sessionPath := viper.GetString("session-file")
	sessions, err := bmc.LoadSessionCache(sessionPath)
	if err != nil {
		log.Warn().Err(err).Str("path", sessionPath).Msg("failed to load session cache, starting empty")
		sessions = bmc.NewSessionCache(sessionPath)
	}

	var creds *secrets.CredentialStore
	if path := viper.GetString("secrets-file"); path != "" {
		creds, err = secrets.OpenCredentialStore(path)
		if err != nil {
			if errors.Is(err, secrets.ErrStoreLocked) {
				log.Warn().Err(err).Msg("credential store locked, passwords will be prompted")
			} else {
				log.Warn().Err(err).Msg("failed to open credential store")
			}
			creds = nil
		}
	}

	return &bmc.Broker{
		Sessions:    sessions,
		Creds:       creds,
		Account:     viper.GetString("login"),
		MaxAttempts: viper.GetInt("max-password-attempts"),
		Insecure:    viper.GetBool("insecure"),
		Timeout:     viper.GetInt("timeout"),
	}
}

// PasswordProvider returns the password capability for a connect: the
// --password flag when given, otherwise an interactive prompt.
func PasswordProvider(account string) bmc.PasswordFunc {
	if password := viper.GetString("password"); password != "" {
		return func() (string, error) {
			return password, nil
		}
	}
	return func() (string, error) {
		return util.PromptPassword(account)
	}
}

// PromptOnce asks for the account password a single time, for the
// non-interactive batch paths that need one credential up front.
func PromptOnce(account string) (string, error) {
	return util.PromptPassword(account)
}
