// The bmc package implements the session and job lifecycle engine used to
// drive out-of-band management controllers over their Redfish HTTP API. The
// Broker opens (or resumes) authenticated sessions, the Controller issues
// commands and polls the asynchronous jobs they create, and every mutating
// operation reports through the same CommandReply envelope.
package bmc

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stmcginnis/gofish"
	"github.com/stmcginnis/gofish/common"
)

// Response is the uniform envelope for every controller reply. The
// TaskLocation field carries the Location header verbatim when the
// controller created an asynchronous job for the request.
type Response struct {
	Status       int
	Body         []byte
	TaskLocation string
}

// Client is the management HTTP capability the core depends on. The
// engine never builds raw requests itself; it only sees status, body,
// and the optional task location of each reply.
type Client interface {
	Get(path string) (*Response, error)
	Post(path string, body any) (*Response, error)
	Patch(path string, body any) (*Response, error)
	Token() string
	Logout() error
}

// DialConfig selects how a session is established. When Token is set the
// dial resumes a previously issued session; otherwise Username/Password
// perform a fresh login.
type DialConfig struct {
	Endpoint string
	Token    string
	Username string
	Password string
	Insecure bool
	Timeout  int
}

// DialFunc lets tests (and alternate transports) stand in for DialRedfish.
type DialFunc func(DialConfig) (Client, error)

// redfishClient issues raw requests with a session token. Login and logout
// go through gofish; everything else uses a plain HTTP client so that
// non-2xx replies come back as ordinary responses for the command executor
// to classify instead of pre-chewed errors.
type redfishClient struct {
	endpoint string
	token    string
	http     *http.Client
	api      *gofish.APIClient
}

// DialRedfish establishes a session with the controller at cfg.Endpoint.
// A failed token resume returns ErrAuthRejected so the caller can fall
// back to a credential login; connection failures return ErrUnreachable.
func DialRedfish(cfg DialConfig) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	httpClient := &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure},
		},
	}

	if cfg.Token != "" {
		c := &redfishClient{
			endpoint: cfg.Endpoint,
			token:    cfg.Token,
			http:     httpClient,
		}
		// probe with the resumed token before handing the client out
		res, err := c.Get(managerCollection)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		if res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden {
			return nil, fmt.Errorf("%w: cached session rejected (%d)", ErrAuthRejected, res.Status)
		}
		log.Debug().Str("endpoint", cfg.Endpoint).Msg("resumed cached session")
		return c, nil
	}

	api, err := gofish.Connect(gofish.ClientConfig{
		Endpoint:   cfg.Endpoint,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Insecure:   cfg.Insecure,
		HTTPClient: httpClient,
	})
	if err != nil {
		if isAuthError(err) {
			return nil, fmt.Errorf("%w: %v", ErrAuthRejected, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	session, err := api.GetSession()
	if err != nil {
		api.Logout()
		return nil, fmt.Errorf("failed to read session token: %v", err)
	}
	log.Debug().Str("endpoint", cfg.Endpoint).Str("user", cfg.Username).Msg("opened new session")
	return &redfishClient{
		endpoint: cfg.Endpoint,
		token:    session.Token,
		http:     httpClient,
		api:      api,
	}, nil
}

// isAuthError reports whether gofish rejected the credentials rather than
// failing to reach the controller at all.
func isAuthError(err error) bool {
	var cerr *common.Error
	if errors.As(err, &cerr) {
		return cerr.HTTPReturnedStatusCode == http.StatusUnauthorized ||
			cerr.HTTPReturnedStatusCode == http.StatusForbidden
	}
	return false
}

func (c *redfishClient) Get(path string) (*Response, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *redfishClient) Post(path string, body any) (*Response, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *redfishClient) Patch(path string, body any) (*Response, error) {
	return c.do(http.MethodPatch, path, body)
}

func (c *redfishClient) Token() string {
	return c.token
}

// Logout tears down a session created by this process. Sessions resumed
// from the cache are left alive on purpose so the token stays reusable.
func (c *redfishClient) Logout() error {
	if c.api == nil {
		return nil
	}
	c.api.Logout()
	return nil
}

func (c *redfishClient) do(method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "racman")
	req.Header.Set("X-Auth-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %v", path, err)
	}
	b, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}
	return &Response{
		Status:       res.StatusCode,
		Body:         b,
		TaskLocation: res.Header.Get("Location"),
	}, nil
}
