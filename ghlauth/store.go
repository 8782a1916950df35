package ghlauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshBuffer is how long before expiry a token is refreshed.
const refreshBuffer = 5 * time.Minute

// StoredToken is an agency or location access token plus the metadata needed
// to refresh it.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        string    `json:"scope"`
	UserType     string    `json:"user_type"`
}

// FromOAuth2Token converts an oauth2 token into a StoredToken, pulling the
// GoHighLevel extension fields out of the raw response.
func FromOAuth2Token(token *oauth2.Token) *StoredToken {
	stored := &StoredToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		stored.Scope = scope
	}
	if userType, ok := token.Extra("userType").(string); ok {
		stored.UserType = userType
	}
	return stored
}

// IsExpired reports whether the token is past its expiry.
func (t *StoredToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// NeedsRefresh reports whether the token is expired or within the refresh
// buffer of expiring.
func (t *StoredToken) NeedsRefresh() bool {
	return !time.Now().Add(refreshBuffer).Before(t.ExpiresAt)
}

// TokenStore persists the agency token as a JSON file.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// NewTokenStore creates a store writing to path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the stored token. Returns ErrNotAuthenticated when no token has
// been saved yet.
func (s *TokenStore) Load() (*StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("ghlauth: failed to read token file: %w", err)
	}

	var token StoredToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("ghlauth: malformed token file %s: %w", s.path, err)
	}
	return &token, nil
}

// Save writes the token, creating parent directories as needed. The file is
// mode 0600 since it holds credentials.
func (s *TokenStore) Save(token *StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ghlauth: failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("ghlauth: failed to encode token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("ghlauth: failed to write token file: %w", err)
	}
	return nil
}
