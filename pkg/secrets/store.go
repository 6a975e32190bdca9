// The secrets package provides the encrypted-at-rest stores racman uses
// for controller credentials: a generic SecretStore keyed by ID, and the
// CredentialStore wrapper the session broker consults for login passwords.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNotFound reports a secret ID with no entry in the store.
var ErrNotFound = errors.New("secret not found")

// SecretStore is a durable map of secret IDs to secret values.
type SecretStore interface {
	GetSecretByID(secretID string) (string, error)
	StoreSecretByID(secretID, secret string) error
	ListSecrets() (map[string]string, error)
	RemoveSecretByID(secretID string) error
}

// LocalSecretStore keeps AES-GCM encrypted secrets in a JSON file. Each
// secret is sealed with a key derived from the master key and its ID.
type LocalSecretStore struct {
	mu        sync.RWMutex
	masterKey []byte
	filename  string
	Secrets   map[string]string `json:"secrets"`
}

// NewLocalSecretStore opens (or, when create is set, creates) the store
// file and decodes the encrypted secret map.
func NewLocalSecretStore(masterKeyHex, filename string, create bool) (*LocalSecretStore, error) {
	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid master key hex: %v", err)
	}

	var stored map[string]string
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if !create {
			return nil, fmt.Errorf("secret store %s does not exist", filename)
		}
		stored = make(map[string]string)
		if err := SaveSecrets(filename, stored); err != nil {
			return nil, err
		}
	} else {
		stored, err = loadSecrets(filename)
		if err != nil {
			return nil, err
		}
	}

	return &LocalSecretStore{
		masterKey: masterKey,
		filename:  filename,
		Secrets:   stored,
	}, nil
}

// GenerateMasterKey creates a 32-byte random key and returns it as hex.
func GenerateMasterKey() (string, error) {
	key := make([]byte, 32) // AES-256
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// GetSecretByID decrypts and returns the secret stored under secretID.
func (l *LocalSecretStore) GetSecretByID(secretID string) (string, error) {
	l.mu.RLock()
	encrypted, exists := l.Secrets[secretID]
	l.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	return decryptAESGCM(deriveAESKey(l.masterKey, secretID), encrypted)
}

// StoreSecretByID encrypts the secret and rewrites the store file.
func (l *LocalSecretStore) StoreSecretByID(secretID, secret string) error {
	encrypted, err := encryptAESGCM(deriveAESKey(l.masterKey, secretID), []byte(secret))
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Secrets[secretID] = encrypted
	return SaveSecrets(l.filename, l.Secrets)
}

// ListSecrets returns a copy of the encrypted secret map.
func (l *LocalSecretStore) ListSecrets() (map[string]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.Secrets))
	for k, v := range l.Secrets {
		out[k] = v
	}
	return out, nil
}

// RemoveSecretByID deletes the secret and rewrites the store file.
func (l *LocalSecretStore) RemoveSecretByID(secretID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.Secrets[secretID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	delete(l.Secrets, secretID)
	return SaveSecrets(l.filename, l.Secrets)
}

// StaticStore returns one fixed secret for every ID. It backs the
// --password flag path, where a single credential covers all targets.
type StaticStore struct {
	Secret string
}

func (s StaticStore) GetSecretByID(secretID string) (string, error) {
	return s.Secret, nil
}

func (s StaticStore) StoreSecretByID(secretID, secret string) error {
	return fmt.Errorf("static secret store is read-only")
}

func (s StaticStore) ListSecrets() (map[string]string, error) {
	return map[string]string{}, nil
}

func (s StaticStore) RemoveSecretByID(secretID string) error {
	return fmt.Errorf("static secret store is read-only")
}

// OpenStore opens the LocalSecretStore at filename using the MASTER_KEY
// environment variable.
func OpenStore(filename string) (SecretStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("path to secret store required")
	}
	masterKey := os.Getenv("MASTER_KEY")
	if masterKey == "" {
		return nil, fmt.Errorf("MASTER_KEY environment variable not set")
	}
	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open local secret store: %v", err)
	}
	return store, nil
}

// SaveSecrets writes the (already encrypted) secret map back to disk with
// owner-only permissions.
func SaveSecrets(jsonFile string, store map[string]string) error {
	file, err := os.OpenFile(jsonFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(store)
}

func loadSecrets(jsonFile string) (map[string]string, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("unable to open secret file %s: %v", jsonFile, err)
	}
	defer file.Close()

	store := make(map[string]string)
	err = json.NewDecoder(file).Decode(&store)
	return store, err
}
