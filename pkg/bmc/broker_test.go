package bmc

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/racman-io/racman/pkg/secrets"
)

const managerMembers = `{"Members": [{"@odata.id": "/redfish/v1/Managers/iDRAC.Embedded.1"}]}`

// openableClient is a connected fake: it answers the manager discovery
// query so Open succeeds.
func openableClient(token string) *fakeClient {
	return &fakeClient{
		token: token,
		handler: func(method, path string, body any) (*Response, error) {
			if method == "GET" && path == managerCollection {
				return &Response{Status: 200, Body: []byte(managerMembers)}, nil
			}
			return &Response{Status: 404, Body: []byte(`{}`)}, nil
		},
	}
}

func testBroker(t *testing.T, dial DialFunc) *Broker {
	t.Helper()
	return &Broker{
		Sessions: NewSessionCache(filepath.Join(t.TempDir(), "sessions.json")),
		Account:  "root",
		Dial:     dial,
	}
}

func staticPassword(pw string) PasswordFunc {
	return func() (string, error) { return pw, nil }
}

func TestConnectReusesCachedSession(t *testing.T) {
	var dialed []DialConfig
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		dialed = append(dialed, cfg)
		return openableClient(cfg.Token), nil
	})
	if err := b.Sessions.Store("bmc1", "cached-token"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	prompted := false
	c, err := b.Connect("bmc1", func() (string, error) {
		prompted = true
		return "", fmt.Errorf("must not prompt")
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if prompted {
		t.Error("cached session connect must not ask for a password")
	}
	if len(dialed) != 1 || dialed[0].Token != "cached-token" {
		t.Fatalf("expected one token dial, got %+v", dialed)
	}
	if c.Token() != "cached-token" {
		t.Errorf("controller bound to %q, want cached-token", c.Token())
	}
}

func TestConnectRejectedTokenFallsBackToLogin(t *testing.T) {
	var dialed []DialConfig
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		dialed = append(dialed, cfg)
		if cfg.Token != "" {
			return nil, fmt.Errorf("%w: stale", ErrAuthRejected)
		}
		return openableClient("fresh-token"), nil
	})
	if err := b.Sessions.Store("bmc1", "stale-token"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	c, err := b.Connect("bmc1", staticPassword("hunter2"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if len(dialed) != 2 {
		t.Fatalf("expected token dial then login dial, got %d dials", len(dialed))
	}
	if dialed[1].Username != "root" || dialed[1].Password != "hunter2" {
		t.Errorf("login dial carried %q/%q", dialed[1].Username, dialed[1].Password)
	}
	if c.Token() != "fresh-token" {
		t.Errorf("controller bound to %q, want fresh-token", c.Token())
	}
	if token, ok := b.Sessions.Lookup("bmc1"); !ok || token != "fresh-token" {
		t.Errorf("fresh token not remembered, cache has %q (%v)", token, ok)
	}
}

func TestConnectRetriesUntilPasswordAccepted(t *testing.T) {
	logins := 0
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		logins++
		if cfg.Password != "third-time" {
			return nil, fmt.Errorf("%w: bad password", ErrAuthRejected)
		}
		return openableClient("tok"), nil
	})

	attempts := []string{"first", "second", "third-time"}
	i := 0
	_, err := b.Connect("bmc1", func() (string, error) {
		pw := attempts[i]
		i++
		return pw, nil
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if logins != 3 {
		t.Errorf("expected 3 login dials, got %d", logins)
	}
}

func TestConnectBoundedRetry(t *testing.T) {
	logins := 0
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		logins++
		return nil, fmt.Errorf("%w: no", ErrAuthRejected)
	})
	b.MaxAttempts = 3

	_, err := b.Connect("bmc1", staticPassword("wrong"))
	if !errors.Is(err, ErrAuthExhausted) {
		t.Fatalf("expected ErrAuthExhausted, got %v", err)
	}
	if logins != 3 {
		t.Errorf("expected 3 login dials, got %d", logins)
	}
}

func TestConnectUsesStoredPassword(t *testing.T) {
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		if cfg.Password != "from-store" {
			return nil, fmt.Errorf("%w: bad password", ErrAuthRejected)
		}
		return openableClient("tok"), nil
	})
	b.Creds = secrets.NewCredentialStore(secrets.StaticStore{Secret: "from-store"})

	_, err := b.Connect("bmc1", func() (string, error) {
		return "", fmt.Errorf("must not prompt")
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
}

func TestConnectUnreachableAbortsImmediately(t *testing.T) {
	logins := 0
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		logins++
		return nil, fmt.Errorf("%w: connection refused", ErrUnreachable)
	})

	_, err := b.Connect("bmc1", staticPassword("pw"))
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if logins != 1 {
		t.Errorf("unreachable controller must not be re-dialed, got %d dials", logins)
	}
}

func TestConnectProviderFailure(t *testing.T) {
	b := testBroker(t, func(cfg DialConfig) (Client, error) {
		return openableClient("tok"), nil
	})

	_, err := b.Connect("bmc1", func() (string, error) {
		return "", fmt.Errorf("stdin closed")
	})
	if !errors.Is(err, ErrAuthExhausted) {
		t.Fatalf("expected ErrAuthExhausted, got %v", err)
	}
}
