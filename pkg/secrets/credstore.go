package secrets

import (
	"errors"
	"fmt"
)

// ErrStoreLocked means the backing secret store could not be opened or
// its contents could not be unsealed (missing or wrong MASTER_KEY).
// Callers are expected to fall back to an interactive prompt, not abort.
var ErrStoreLocked = errors.New("credential store locked")

// CredentialStore is the password cache the session broker consults,
// keyed by the controller login account.
type CredentialStore struct {
	store SecretStore
}

// NewCredentialStore wraps an already opened SecretStore.
func NewCredentialStore(store SecretStore) *CredentialStore {
	return &CredentialStore{store: store}
}

// OpenCredentialStore opens the store file at path. An unopenable store
// is reported as ErrStoreLocked.
func OpenCredentialStore(path string) (*CredentialStore, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreLocked, err)
	}
	return &CredentialStore{store: store}, nil
}

func credentialKey(account string) string {
	return "bmc-password/" + account
}

// GetPassword returns the cached password for account. A decryption
// failure is reported as ErrStoreLocked; a plain miss is not.
func (c *CredentialStore) GetPassword(account string) (string, error) {
	pw, err := c.store.GetSecretByID(credentialKey(account))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("no password cached for %s: %w", account, err)
		}
		return "", fmt.Errorf("%w: %v", ErrStoreLocked, err)
	}
	return pw, nil
}

// SetPassword caches the password for account.
func (c *CredentialStore) SetPassword(account, password string) error {
	return c.store.StoreSecretByID(credentialKey(account), password)
}

// DeletePassword drops the cached password for account.
func (c *CredentialStore) DeletePassword(account string) error {
	return c.store.RemoveSecretByID(credentialKey(account))
}
