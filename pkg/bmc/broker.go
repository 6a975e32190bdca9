package bmc

import (
	"errors"
	"fmt"
	"os"

	"github.com/racman-io/racman/pkg/secrets"
	"github.com/rs/zerolog/log"
)

// PasswordFunc produces a password on demand, typically by prompting the
// operator. It may be invoked several times for a single connection when
// the controller keeps rejecting what it is given.
type PasswordFunc func() (string, error)

// Broker opens authenticated controller sessions, reusing cached session
// tokens when the controller still honors them and falling back to a
// credential login otherwise.
type Broker struct {
	// Sessions caches issued tokens per hostname. Required.
	Sessions *SessionCache

	// Creds caches the login password per account. Optional; when nil
	// (or locked) every password comes from the interactive provider.
	Creds *secrets.CredentialStore

	// Account is the controller-local user to log in as.
	Account string

	// MaxAttempts bounds the wrong-password retry loop. Zero means
	// unbounded: the operator is expected to abort on repeated failure.
	MaxAttempts int

	Insecure bool
	Timeout  int

	// Dial established the transport session; defaults to DialRedfish.
	// Injectable so the state machine is testable without a controller.
	Dial DialFunc
}

// Connect returns an authenticated handle for the controller at host.
//
// The cached session token is tried first. If the controller is
// unreachable the login path below acts as the one retry with the session
// cleared; if the token is merely rejected we fall through to a password
// login. Passwords come from the credential store when cached, otherwise
// from the interactive provider, which is re-invoked after every
// rejection until the controller accepts one (or MaxAttempts is hit).
func (b *Broker) Connect(host string, password PasswordFunc) (*Controller, error) {
	dial := b.Dial
	if dial == nil {
		dial = DialRedfish
	}
	endpoint := "https://" + host

	if token, ok := b.Sessions.Lookup(host); ok {
		client, err := dial(DialConfig{
			Endpoint: endpoint,
			Token:    token,
			Insecure: b.Insecure,
			Timeout:  b.Timeout,
		})
		if err == nil {
			return Open(host, client)
		}
		log.Debug().Err(err).Str("host", host).Msg("cached session unusable, logging in")
		if err := b.Sessions.Forget(host); err != nil {
			log.Warn().Err(err).Msg("failed to drop stale session from cache")
		}
	}

	pw, fromStore := b.storedPassword()
	if !fromStore {
		var err error
		if pw, err = password(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthExhausted, err)
		}
	}

	attempts := 0
	for {
		client, err := dial(DialConfig{
			Endpoint: endpoint,
			Username: b.Account,
			Password: pw,
			Insecure: b.Insecure,
			Timeout:  b.Timeout,
		})
		if err == nil {
			b.remember(host, client.Token(), pw, fromStore)
			return Open(host, client)
		}
		if !errors.Is(err, ErrAuthRejected) {
			return nil, err
		}

		attempts++
		fmt.Fprintf(os.Stderr, "Password failed for %s on %s\n", b.Account, host)
		if b.MaxAttempts > 0 && attempts >= b.MaxAttempts {
			return nil, fmt.Errorf("%w: %d attempts rejected by %s", ErrAuthExhausted, attempts, host)
		}
		if pw, err = password(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthExhausted, err)
		}
		fromStore = false
	}
}

// storedPassword consults the credential store. A locked store is
// recoverable: we report it and let the interactive provider take over.
func (b *Broker) storedPassword() (string, bool) {
	if b.Creds == nil {
		return "", false
	}
	pw, err := b.Creds.GetPassword(b.Account)
	if err != nil {
		if errors.Is(err, secrets.ErrStoreLocked) {
			fmt.Fprintln(os.Stderr, "credential store locked")
		}
		return "", false
	}
	return pw, true
}

// remember persists the session token, plus the password when it did not
// come from the store already. Failures here are logged, not fatal: the
// session itself is established.
func (b *Broker) remember(host, token, pw string, fromStore bool) {
	if err := b.Sessions.Store(host, token); err != nil {
		log.Warn().Err(err).Str("host", host).Msg("failed to persist session token")
	}
	if !fromStore && b.Creds != nil {
		if err := b.Creds.SetPassword(b.Account, pw); err != nil && !errors.Is(err, secrets.ErrStoreLocked) {
			log.Warn().Err(err).Msg("failed to save password to credential store")
		}
	}
}
