package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// exchangeEndpointPath is the identity provider's location token exchange
// endpoint, relative to Config.IdentityBaseURL.
const exchangeEndpointPath = "/functions/v1/get-token"

// Exchanger trades a validated bearer token for a location-scoped access
// token, caching the result for LocationTokenTTL.
//
// Exchange never fails: on any exchange error the original bearer token is
// returned unchanged and nothing is cached, so the next call retries the
// exchange instead of permanently degrading.
type Exchanger struct {
	baseURL string
	client  *http.Client
	cache   *Cache[string]
	logger  Logger
}

// NewExchanger creates an exchanger against baseURL with an instance-scoped
// token cache.
func NewExchanger(baseURL string, client *http.Client, cacheSize int, logger Logger) *Exchanger {
	if baseURL == "" {
		baseURL = DefaultIdentityBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = &defaultLogger{}
	}
	return &Exchanger{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		cache:   NewCache[string](cacheSize),
		logger:  logger,
	}
}

type exchangeRequest struct {
	LocationID string `json:"location_id"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
}

// Exchange returns a token scoped to locationID, falling back to the bearer
// token itself when the exchange endpoint rejects or cannot be reached.
func (e *Exchanger) Exchange(ctx context.Context, bearerToken, locationID string) string {
	key := tokenHash(bearerToken + ":" + locationID)
	if cached, ok := e.cache.Get(key); ok {
		e.logger.Debug("Using cached location token for %s", locationID)
		return cached
	}

	payload, err := json.Marshal(exchangeRequest{LocationID: locationID})
	if err != nil {
		e.logger.Warn("Location token exchange error: %v, falling back to bearer token", err)
		return bearerToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+exchangeEndpointPath, bytes.NewReader(payload))
	if err != nil {
		e.logger.Warn("Location token exchange error: %v, falling back to bearer token", err)
		return bearerToken
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("Location token exchange error: %v, falling back to bearer token", err)
		return bearerToken
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logger.Warn("Location token exchange error: %v, falling back to bearer token", err)
		return bearerToken
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("Failed to get location token (%d): %s, falling back to bearer token", resp.StatusCode, string(body))
		return bearerToken
	}

	var parsed exchangeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		e.logger.Warn("Malformed location token response: %v, falling back to bearer token", err)
		return bearerToken
	}

	scoped := parsed.AccessToken
	if scoped == "" {
		scoped = bearerToken
	}

	e.cache.Set(key, scoped, time.Now().Add(LocationTokenTTL))
	e.logger.Info("Exchanged location token for %s (cached for %s)", locationID, LocationTokenTTL)

	return scoped
}
