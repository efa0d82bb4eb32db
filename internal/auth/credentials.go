// Package auth stores the bearer token used against the portfolio API.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const credFileName = "credentials.json"

// ErrNotLoggedIn is reported by commands that need stored credentials.
var ErrNotLoggedIn = errors.New("not logged in: run `folio login`")

type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"` // "env" | "file"
	Email     string    `json:"email,omitempty"`
	APIURL    string    `json:"api_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FileStore keeps credentials in <Dir>/credentials.json. A non-empty
// EnvToken takes precedence over the file.
type FileStore struct {
	Dir      string
	EnvToken string
}

// DefaultDir is ~/.folio.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".folio"), nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.Dir, credFileName)
}

// Get returns the stored credentials, or nil when not logged in.
func (s *FileStore) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(s.EnvToken); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}

	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Token implements apiclient.TokenSource. Missing credentials yield an
// empty token so unauthenticated calls such as login still work.
func (s *FileStore) Token() (string, error) {
	ti, err := s.Get()
	if err != nil || ti == nil {
		return "", err
	}
	return ti.Token, nil
}

// Set saves a token with owner-only permissions.
func (s *FileStore) Set(token, email, apiURL string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		Email:     email,
		APIURL:    apiURL,
		CreatedAt: time.Now(),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the stored credentials. It is not an error if none exist.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
