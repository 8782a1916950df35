package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// newValidator creates the token validator selected by cfg.Mode.
func newValidator(cfg *Config, logger Logger) (Validator, error) {
	switch cfg.Mode {
	case "remote":
		return NewRemoteValidator(cfg.IdentityBaseURL, cfg.HTTPClient, cfg.CacheSize, logger), nil
	case "hmac":
		return &HMACValidator{secret: cfg.JWTSecret, audience: cfg.Audience, logger: logger}, nil
	case "oidc":
		return newOIDCValidator(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", cfg.Mode)
	}
}

// HMACValidator verifies HS256-signed tokens locally. Development mode: no
// identity provider round trip, so nothing is cached.
type HMACValidator struct {
	secret   []byte
	audience string
	logger   Logger
}

// Validate verifies the token signature and audience and returns the claims
// as the validation payload.
func (v *HMACValidator) Validate(_ context.Context, tokenString string) (*Validation, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: fmt.Sprintf("token validation failed: %v", err)}
	}
	if !token.Valid {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: "invalid token claims"}
	}

	if err := validateAudience(claims, v.audience); err != nil {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: err.Error()}
	}

	return &Validation{
		Payload:   map[string]interface{}(claims),
		ExpiresAt: time.Now().Add(ValidationTTL),
	}, nil
}

// OIDCValidator verifies tokens against an OIDC issuer's JWKS.
type OIDCValidator struct {
	verifier *oidc.IDTokenVerifier
	audience string
	logger   Logger
}

func newOIDCValidator(cfg *Config, logger Logger) (*OIDCValidator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		}
	}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		// go-oidc uses the ClientID field for audience validation.
		ClientID:             cfg.Audience,
		SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
	})

	logger.Info("OIDC validator initialized (issuer: %s, audience: %s)", cfg.Issuer, cfg.Audience)

	return &OIDCValidator{verifier: verifier, audience: cfg.Audience, logger: logger}, nil
}

// Validate verifies the token via JWKS and returns its claims as the
// validation payload.
func (v *OIDCValidator) Validate(ctx context.Context, tokenString string) (*Validation, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	idToken, err := v.verifier.Verify(verifyCtx, tokenString)
	if err != nil {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: fmt.Sprintf("token verification failed: %v", err)}
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: fmt.Sprintf("failed to extract claims: %v", err)}
	}

	return &Validation{
		Payload:   claims,
		ExpiresAt: time.Now().Add(ValidationTTL),
	}, nil
}

// validateAudience checks the aud claim against the expected value. The
// claim can be a string or a list of strings.
func validateAudience(claims jwt.MapClaims, audience string) error {
	audClaim, exists := claims["aud"]
	if !exists {
		return fmt.Errorf("missing audience claim")
	}

	if audStr, ok := audClaim.(string); ok {
		if audStr != audience {
			return fmt.Errorf("invalid audience: expected %s, got %s", audience, audStr)
		}
		return nil
	}

	if audArray, ok := audClaim.([]interface{}); ok {
		for _, aud := range audArray {
			if audStr, ok := aud.(string); ok && audStr == audience {
				return nil
			}
		}
		return fmt.Errorf("invalid audience: expected %s not found in audience list", audience)
	}

	return fmt.Errorf("invalid audience claim type")
}
