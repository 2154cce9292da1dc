// Package oauth provides the OAuth 2.0 request shapes shared by the LinkedIn
// and Facebook clients, plus token storage for callers that persist tokens.
package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errors.New("token not found")

// AuthParams describes an authorization-URL request.
type AuthParams struct {
	ClientID    string
	RedirectURI string
	State       string
	// Scope overrides the provider default when non-empty.
	Scope string
}

// CodeExchange carries the inputs for an authorization-code exchange.
type CodeExchange struct {
	ClientID     string
	ClientSecret string // #nosec G117 - OAuth app credential supplied by the caller
	RedirectURI  string
	Code         string
}

type Token struct {
	AccessToken string    `json:"access_token"` // #nosec G117 - JSON field for OAuth token, not an exposed secret
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresIn   int64     `json:"expires_in,omitempty"`
	ObtainedAt  time.Time `json:"obtained_at,omitempty"`
}

// ExpiresAt returns when the token expires, or the zero time if unknown.
func (t *Token) ExpiresAt() time.Time {
	if t.ExpiresIn <= 0 || t.ObtainedAt.IsZero() {
		return time.Time{}
	}
	return t.ObtainedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Expired reports whether the token is known to be past its expiry at now.
func (t *Token) Expired(now time.Time) bool {
	exp := t.ExpiresAt()
	return !exp.IsZero() && !now.Before(exp)
}

// NewState returns a fresh value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// BuildAuthURL appends the standard authorization-code query to endpoint.
func BuildAuthURL(endpoint string, p AuthParams, defaultScope string) string {
	scope := p.Scope
	if scope == "" {
		scope = defaultScope
	}
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", p.RedirectURI)
	q.Set("state", p.State)
	q.Set("scope", scope)
	return endpoint + "?" + q.Encode()
}

type TokenStorage struct {
	dir string
}

func NewTokenStorage(dir string) *TokenStorage {
	return &TokenStorage{dir: dir}
}

func (s *TokenStorage) Save(provider string, token *Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	return os.WriteFile(s.path(provider), data, 0600)
}

func (s *TokenStorage) Load(provider string) (*Token, error) {
	data, err := os.ReadFile(s.path(provider)) // #nosec G304 -- provider is sanitized
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// Delete removes a stored token. Deleting a missing token is not an error.
func (s *TokenStorage) Delete(provider string) error {
	if err := os.Remove(s.path(provider)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (s *TokenStorage) path(provider string) string {
	return filepath.Join(s.dir, filepath.Base(provider)+"_token.json")
}
