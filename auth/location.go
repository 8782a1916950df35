package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Resolver finds the tenant location a bearer token is scoped to.
//
// Locate never fails: a token without a usable locationId claim resolves to
// the configured default location. The claims are decoded without signature
// verification, which is safe only because the caller holds a Validation
// proving the identity provider already accepted the token; that proof is a
// required parameter rather than a call-order convention.
type Resolver struct {
	defaultLocation string
	logger          Logger
}

// NewResolver creates a resolver. An empty defaultLocation falls back to
// DefaultLocationSentinel.
func NewResolver(defaultLocation string, logger Logger) *Resolver {
	if defaultLocation == "" {
		defaultLocation = DefaultLocationSentinel
	}
	if logger == nil {
		logger = &defaultLogger{}
	}
	return &Resolver{defaultLocation: defaultLocation, logger: logger}
}

// Locate returns the location the token is scoped to, or the default
// location when the token carries no locationId claim or cannot be decoded.
func (r *Resolver) Locate(token string, validation *Validation) string {
	if validation == nil {
		r.logger.Warn("Locate called without validation result, using default location")
		return r.defaultLocation
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		r.logger.Warn("Failed to decode token claims: %v, using default location", err)
		return r.defaultLocation
	}

	if locationID, ok := claims["locationId"].(string); ok && locationID != "" {
		return locationID
	}

	r.logger.Warn("No locationId in token, using default location %q", r.defaultLocation)
	return r.defaultLocation
}
