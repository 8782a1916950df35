package ghl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture records the last request the fake API received.
type capture struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	status   int
	response string
}

// newTestClient points a Client at a fake API that answers every request
// with the configured response and records what it saw.
func newTestClient(t *testing.T, response string) (*Client, *capture) {
	t.Helper()
	cap := &capture{status: http.StatusOK, response: response}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.Method = r.Method
		cap.Path = r.URL.Path
		cap.Query = r.URL.Query()
		cap.Header = r.Header.Clone()
		cap.Body = readAll(t, r)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(cap.status)
		_, _ = w.Write([]byte(cap.response))
	}))
	t.Cleanup(srv.Close)

	tokens := TokenProviderFunc(func(ctx context.Context, locationID string) (string, error) {
		if locationID == "" {
			return "agency-token", nil
		}
		return "token-for-" + locationID, nil
	})

	return NewClient(tokens, WithBaseURL(srv.URL), WithHTTPClient(srv.Client())), cap
}

func readAll(t *testing.T, r *http.Request) []byte {
	t.Helper()
	defer func() { _ = r.Body.Close() }()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read request body: %v", err)
	}
	return body
}

func TestRequestHeaders(t *testing.T) {
	client, cap := newTestClient(t, `{"contact":{"id":"c1","locationId":"loc-1"}}`)

	_, err := client.GetContact(context.Background(), "c1", "loc-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-for-loc-1", cap.Header.Get("Authorization"))
	assert.Equal(t, APIVersion, cap.Header.Get("Version"))
	assert.Equal(t, "application/json", cap.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", cap.Header.Get("Accept"))
}

func TestAgencyTokenForEmptyLocation(t *testing.T) {
	client, cap := newTestClient(t, `{"locations":[]}`)

	_, err := client.SearchLocations(context.Background(), 10, 0)
	require.NoError(t, err)

	assert.Equal(t, "Bearer agency-token", cap.Header.Get("Authorization"))
}

func TestAPIErrorOnFailure(t *testing.T) {
	client, cap := newTestClient(t, `{"message":"not found"}`)
	cap.status = http.StatusNotFound

	_, err := client.GetContact(context.Background(), "missing", "loc-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, "/contacts/missing", apiErr.Path)
	assert.Contains(t, apiErr.Body, "not found")
	assert.True(t, IsNotFound(err))
}

func TestTokenProviderErrorPropagates(t *testing.T) {
	tokens := TokenProviderFunc(func(ctx context.Context, locationID string) (string, error) {
		return "", errors.New("no token on file")
	})
	client := NewClient(tokens)

	_, err := client.GetContact(context.Background(), "c1", "loc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token on file")
}

func TestUnwrapEnvelope(t *testing.T) {
	var contact Contact
	raw := json.RawMessage(`{"contact":{"id":"c1","locationId":"loc-1"}}`)
	require.NoError(t, unwrap(raw, "contact", &contact))
	assert.Equal(t, "c1", contact.ID)
}

func TestUnwrapDirect(t *testing.T) {
	var contact Contact
	raw := json.RawMessage(`{"id":"c1","locationId":"loc-1"}`)
	require.NoError(t, unwrap(raw, "contact", &contact))
	assert.Equal(t, "c1", contact.ID)
}
