// Package ghl is a client for the GoHighLevel API v2.
//
// Every request is authenticated with a token obtained from a TokenProvider,
// so the same client works in local mode (agency token from disk, exchanged
// per location) and remote mode (caller's bearer token, exchanged lazily via
// the identity provider).
package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the GoHighLevel API v2 endpoint.
	DefaultBaseURL = "https://services.leadconnectorhq.com"

	// APIVersion is the required Version header for API v2.
	APIVersion = "2021-07-28"
)

// TokenProvider supplies access tokens for API calls. An empty locationID
// asks for the agency-level token; a non-empty one asks for a token scoped
// to that location.
type TokenProvider interface {
	LocationToken(ctx context.Context, locationID string) (string, error)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context, locationID string) (string, error)

// LocationToken implements TokenProvider.
func (f TokenProviderFunc) LocationToken(ctx context.Context, locationID string) (string, error) {
	return f(ctx, locationID)
}

// Client calls the GoHighLevel API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a GoHighLevel API client.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request performs an authenticated API call and returns the raw response
// body. locationID selects the token scope; it is not added to the query
// automatically since endpoints disagree on the parameter name.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body interface{}, locationID string) (json.RawMessage, error) {
	token, err := c.tokens.LocationToken(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("ghl: failed to obtain token: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ghl: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("ghl: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ghl: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ghl: %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(raw),
		}
	}

	return raw, nil
}

// unwrap decodes raw into out, preferring the named envelope field when the
// API wraps its payload (e.g. {"contact": {...}}) and falling back to a
// direct decode when it does not.
func unwrap(raw json.RawMessage, field string, out interface{}) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[field]; ok {
			return json.Unmarshal(inner, out)
		}
	}
	return json.Unmarshal(raw, out)
}
