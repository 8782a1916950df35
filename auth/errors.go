package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError is returned when a bearer token is missing or rejected by the
// identity provider. Status is the HTTP status the request boundary should
// surface (401 for every rejection the provider reports).
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.Status, e.Message)
}

// UnavailableError is returned when the identity provider cannot be reached
// at the network level. It is deliberately distinct from AuthError so callers
// can tell "retry later" (503) apart from "re-authenticate" (401).
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("authentication service unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ErrMissingToken is the AuthError used when no credentials are supplied.
var ErrMissingToken = &AuthError{Status: http.StatusUnauthorized, Message: "missing authorization header"}

// StatusFor maps an authentication error to the HTTP status code it should
// be surfaced as. Unknown errors map to 401.
func StatusFor(err error) int {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Status
	}
	var unavailErr *UnavailableError
	if errors.As(err, &unavailErr) {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnauthorized
}
