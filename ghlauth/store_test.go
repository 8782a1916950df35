package ghlauth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "tokens.json")
	store := NewTokenStore(path)

	saved := &StoredToken{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		Scope:        "contacts.readonly",
		UserType:     "Location",
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != saved.AccessToken || loaded.RefreshToken != saved.RefreshToken {
		t.Errorf("loaded %+v, want %+v", loaded, saved)
	}
	if !loaded.ExpiresAt.Equal(saved.ExpiresAt) {
		t.Errorf("expiry %v, want %v", loaded.ExpiresAt, saved.ExpiresAt)
	}
}

func TestTokenStoreFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewTokenStore(path)

	if err := store.Save(&StoredToken{AccessToken: "secret"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestTokenStoreNotAuthenticated(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "missing.json"))

	_, err := store.Load()
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("got %v, want ErrNotAuthenticated", err)
	}
}

func TestTokenStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenStore(path).Load(); err == nil {
		t.Error("expected error for malformed token file")
	}
}

func TestStoredTokenRefreshWindow(t *testing.T) {
	fresh := &StoredToken{ExpiresAt: time.Now().Add(time.Hour)}
	if fresh.NeedsRefresh() {
		t.Error("token expiring in an hour should not need refresh")
	}
	if fresh.IsExpired() {
		t.Error("token expiring in an hour is not expired")
	}

	closing := &StoredToken{ExpiresAt: time.Now().Add(2 * time.Minute)}
	if !closing.NeedsRefresh() {
		t.Error("token inside the refresh buffer should need refresh")
	}
	if closing.IsExpired() {
		t.Error("token inside the buffer is not yet expired")
	}

	expired := &StoredToken{ExpiresAt: time.Now().Add(-time.Minute)}
	if !expired.IsExpired() || !expired.NeedsRefresh() {
		t.Error("past-expiry token should be expired and need refresh")
	}
}

func TestFromOAuth2Token(t *testing.T) {
	base := &oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	token := base.WithExtra(map[string]interface{}{
		"scope":    "contacts.readonly contacts.write",
		"userType": "Location",
	})

	stored := FromOAuth2Token(token)
	if stored.AccessToken != "access-1" || stored.RefreshToken != "refresh-1" {
		t.Errorf("token fields not copied: %+v", stored)
	}
	if stored.Scope != "contacts.readonly contacts.write" {
		t.Errorf("scope = %q", stored.Scope)
	}
	if stored.UserType != "Location" {
		t.Errorf("userType = %q", stored.UserType)
	}
}
