package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken builds a signed HS256 token with the given claims. The resolver
// never verifies signatures, so any secret works.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validationProof() *Validation {
	return &Validation{Payload: map[string]interface{}{}, ExpiresAt: time.Now().Add(time.Minute)}
}

func TestLocateFromClaim(t *testing.T) {
	r := NewResolver("fallback-loc", nil)
	token := signToken(t, jwt.MapClaims{"locationId": "loc-123"})

	if got := r.Locate(token, validationProof()); got != "loc-123" {
		t.Errorf("got %q, want loc-123", got)
	}
}

func TestLocateWithoutValidation(t *testing.T) {
	r := NewResolver("fallback-loc", nil)
	token := signToken(t, jwt.MapClaims{"locationId": "loc-123"})

	// No validation proof means the claim must not be trusted.
	if got := r.Locate(token, nil); got != "fallback-loc" {
		t.Errorf("got %q, want fallback-loc", got)
	}
}

func TestLocateMissingClaim(t *testing.T) {
	r := NewResolver("fallback-loc", nil)
	token := signToken(t, jwt.MapClaims{"sub": "user-1"})

	if got := r.Locate(token, validationProof()); got != "fallback-loc" {
		t.Errorf("got %q, want fallback-loc", got)
	}
}

func TestLocateEmptyClaim(t *testing.T) {
	r := NewResolver("fallback-loc", nil)
	token := signToken(t, jwt.MapClaims{"locationId": ""})

	if got := r.Locate(token, validationProof()); got != "fallback-loc" {
		t.Errorf("got %q, want fallback-loc", got)
	}
}

func TestLocateUndecodableToken(t *testing.T) {
	r := NewResolver("fallback-loc", nil)

	if got := r.Locate("not-a-jwt", validationProof()); got != "fallback-loc" {
		t.Errorf("got %q, want fallback-loc", got)
	}
}

func TestLocateSentinelDefault(t *testing.T) {
	r := NewResolver("", nil)

	if got := r.Locate("not-a-jwt", validationProof()); got != DefaultLocationSentinel {
		t.Errorf("got %q, want %q", got, DefaultLocationSentinel)
	}
}
