package secrets

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestCredStore(t *testing.T) *CredentialStore {
	t.Helper()
	masterKey, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}
	store, err := NewLocalSecretStore(masterKey, filepath.Join(t.TempDir(), "creds.json"), true)
	if err != nil {
		t.Fatalf("Failed to create LocalSecretStore: %v", err)
	}
	return NewCredentialStore(store)
}

func TestCredentialStoreRoundTrip(t *testing.T) {
	creds := newTestCredStore(t)

	if err := creds.SetPassword("root", "hunter2"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	pw, err := creds.GetPassword("root")
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if pw != "hunter2" {
		t.Errorf("expected hunter2, got %q", pw)
	}
}

func TestCredentialStoreMissIsNotLocked(t *testing.T) {
	creds := newTestCredStore(t)

	_, err := creds.GetPassword("nobody")
	if err == nil {
		t.Fatal("expected a miss for uncached account")
	}
	if errors.Is(err, ErrStoreLocked) {
		t.Errorf("a plain miss must not report the store locked: %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound in the chain, got %v", err)
	}
}

func TestCredentialStoreDelete(t *testing.T) {
	creds := newTestCredStore(t)
	if err := creds.SetPassword("root", "hunter2"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := creds.DeletePassword("root"); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if _, err := creds.GetPassword("root"); err == nil {
		t.Fatal("deleted password still retrievable")
	}
}

func TestOpenCredentialStoreLocked(t *testing.T) {
	t.Setenv("MASTER_KEY", "")

	_, err := OpenCredentialStore(filepath.Join(t.TempDir(), "creds.json"))
	if !errors.Is(err, ErrStoreLocked) {
		t.Fatalf("expected ErrStoreLocked without a master key, got %v", err)
	}
}

func TestStaticStore(t *testing.T) {
	creds := NewCredentialStore(StaticStore{Secret: "fixed"})

	pw, err := creds.GetPassword("anyone")
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if pw != "fixed" {
		t.Errorf("expected fixed, got %q", pw)
	}
	if err := creds.SetPassword("anyone", "x"); err == nil {
		t.Error("static store must reject writes")
	}
}
