package auth

import (
	"context"
	"errors"
	"net/http"
)

// Authenticator composes token validation, location resolution, and lazy
// location token exchange into the per-request authentication step.
type Authenticator struct {
	config    *Config
	validator Validator
	resolver  *Resolver
	exchanger *Exchanger
	logger    Logger
}

// NewAuthenticator creates an authenticator with the given configuration.
func NewAuthenticator(cfg *Config) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = &defaultLogger{}
	}

	validator, err := newValidator(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		config:    cfg,
		validator: validator,
		resolver:  NewResolver(cfg.DefaultLocation, logger),
		exchanger: NewExchanger(cfg.IdentityBaseURL, cfg.HTTPClient, cfg.CacheSize, logger),
		logger:    logger,
	}, nil
}

// Authenticate validates the bearer token and resolves its location.
//
// It deliberately does not exchange for a location-scoped token: that
// network round trip is deferred to the CRM client's TokenProvider, so a
// caller that only needs identity pays no exchange cost. Validation errors
// keep their kind (*AuthError, *UnavailableError); anything else becomes a
// generic 401.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*AuthContext, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	validation, err := a.validator.Validate(ctx, token)
	if err != nil {
		var authErr *AuthError
		var unavailErr *UnavailableError
		if errors.As(err, &authErr) || errors.As(err, &unavailErr) {
			return nil, err
		}
		a.logger.Error("Authentication error: %v", err)
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: "authentication failed"}
	}

	locationID := a.resolver.Locate(token, validation)

	return &AuthContext{LocationID: locationID, Token: token}, nil
}

// Exchange returns a token scoped to locationID, falling back to the bearer
// token itself on any exchange failure. Used by the CRM client once a
// request actually needs to act on behalf of a location.
func (a *Authenticator) Exchange(ctx context.Context, bearerToken, locationID string) string {
	return a.exchanger.Exchange(ctx, bearerToken, locationID)
}
