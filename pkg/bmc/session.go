package bmc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SessionCache is the durable hostname → session-token map. The backing
// file is read once when the cache is loaded and rewritten wholesale on
// every update, with owner-only permissions since tokens are credentials.
//
// There is no cross-process locking: concurrent logins to the same host
// from separate processes race on the file and the last writer wins. The
// expected granularity of use is one controller, one operator, one
// process.
type SessionCache struct {
	path     string
	Sessions map[string]string `json:"sessions"`
}

// DefaultSessionPath returns the per-user session cache location.
func DefaultSessionPath() string {
	return fmt.Sprintf("/var/tmp/racman-sessions-%d.json", os.Getuid())
}

// NewSessionCache returns an empty cache backed by the file at path.
func NewSessionCache(path string) *SessionCache {
	return &SessionCache{
		path:     path,
		Sessions: make(map[string]string),
	}
}

// LoadSessionCache reads the cache file at path. A missing file yields an
// empty cache; a corrupt one is an error so we never silently clobber
// sessions we failed to parse.
func LoadSessionCache(path string) (*SessionCache, error) {
	cache := NewSessionCache(path)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session cache %s: %v", path, err)
	}
	if err := json.Unmarshal(b, cache); err != nil {
		return nil, fmt.Errorf("failed to parse session cache %s: %v", path, err)
	}
	if cache.Sessions == nil {
		cache.Sessions = make(map[string]string)
	}
	return cache, nil
}

// Lookup returns the cached token for host, if any.
func (s *SessionCache) Lookup(host string) (string, bool) {
	token, ok := s.Sessions[host]
	return token, ok && token != ""
}

// Store records a token for host and rewrites the cache file.
func (s *SessionCache) Store(host, token string) error {
	s.Sessions[host] = token
	return s.save()
}

// Forget drops the cached token for host, typically after the controller
// rejected it.
func (s *SessionCache) Forget(host string) error {
	if _, ok := s.Sessions[host]; !ok {
		return nil
	}
	delete(s.Sessions, host)
	return s.save()
}

func (s *SessionCache) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create session cache directory: %v", err)
		}
	}
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write session cache %s: %v", s.path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}
