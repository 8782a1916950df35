package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// validateEndpointPath is the identity provider's token validation endpoint,
// relative to Config.IdentityBaseURL.
const validateEndpointPath = "/functions/v1/oauth-test"

// Validation is the identity provider's answer for one bearer token. Payload
// is the provider's JSON body, kept opaque apart from the claims the
// resolver reads. ExpiresAt is always in the future when a Validation is
// returned from the cache.
type Validation struct {
	Payload   map[string]interface{}
	ExpiresAt time.Time
}

// Validator checks a bearer token's validity.
//
// Implementations return *AuthError when the token is rejected and
// *UnavailableError when the identity provider cannot be reached; the two
// must stay distinguishable at the request boundary.
type Validator interface {
	Validate(ctx context.Context, token string) (*Validation, error)
}

// RemoteValidator validates bearer tokens against the identity provider's
// validation endpoint, caching successful results for ValidationTTL.
type RemoteValidator struct {
	baseURL string
	client  *http.Client
	cache   *Cache[*Validation]
	logger  Logger
}

// NewRemoteValidator creates a validator against baseURL with an
// instance-scoped result cache.
func NewRemoteValidator(baseURL string, client *http.Client, cacheSize int, logger Logger) *RemoteValidator {
	if baseURL == "" {
		baseURL = DefaultIdentityBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = &defaultLogger{}
	}
	return &RemoteValidator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		cache:   NewCache[*Validation](cacheSize),
		logger:  logger,
	}
}

// Validate checks the cache first and only calls the identity provider on a
// miss. Concurrent misses for the same token may each trigger a call; the
// writes are idempotent overwrites of equivalent data, so no single-flight
// deduplication is done.
func (v *RemoteValidator) Validate(ctx context.Context, token string) (*Validation, error) {
	token = strings.TrimPrefix(token, "Bearer ")

	key := tokenHash(token)
	if cached, ok := v.cache.Get(key); ok {
		v.logger.Debug("Using cached token validation")
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+validateEndpointPath, nil)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("Token validation request failed: %v", err)
		return nil, &UnavailableError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{
			Status:  http.StatusUnauthorized,
			Message: fmt.Sprintf("token validation failed: %s", string(body)),
		}
	}

	payload := make(map[string]interface{})
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, &AuthError{
				Status:  http.StatusUnauthorized,
				Message: fmt.Sprintf("token validation returned malformed payload: %v", err),
			}
		}
	}

	validation := &Validation{
		Payload:   payload,
		ExpiresAt: time.Now().Add(ValidationTTL),
	}
	v.cache.Set(key, validation, validation.ExpiresAt)
	v.logger.Info("Validated token (hash: %s..., cached for %s)", key[:16], ValidationTTL)

	return validation, nil
}
