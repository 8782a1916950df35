package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/ghl"
	"github.com/basicmachines/highlevel-mcp/mcp"
)

// newTestStack builds the full remote-mode stack against fake upstreams.
func newTestStack(t *testing.T) (*Server, *Config) {
	t.Helper()

	identity := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(identity.Close)

	authenticator, err := auth.NewAuthenticator(&auth.Config{
		Mode:            "remote",
		IdentityBaseURL: identity.URL,
		HTTPClient:      identity.Client(),
	})
	require.NoError(t, err)

	tokens := ghl.TokenProviderFunc(func(ctx context.Context, locationID string) (string, error) {
		return "test-token", nil
	})
	mcpSrv := mcp.NewServer(ghl.NewClient(tokens), "loc-1", nil)

	cfg := &Config{
		Port:                 8000,
		BaseURL:              "https://mcp.example.com",
		UpstreamAuthorizeURL: "https://upstream.example.com/oauth/gohighlevel",
		UpstreamTokenURL:     "https://upstream.example.com/oauth/token",
	}
	return New(cfg, mcpSrv, authenticator), cfg
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestStack(t)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(33), body["tools_loaded"])
}

func TestMetadata(t *testing.T) {
	s, _ := newTestStack(t)

	rec := get(t, s, "/.well-known/oauth-authorization-server")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, "https://mcp.example.com", meta["issuer"])
	assert.Equal(t, "https://mcp.example.com/oauth/authorize", meta["authorization_endpoint"])
	assert.Equal(t, "https://mcp.example.com/oauth/token", meta["token_endpoint"])
	assert.Equal(t, "https://mcp.example.com/oauth/register", meta["registration_endpoint"])
	assert.Contains(t, meta["scopes_supported"], "ghl.full")
	assert.Contains(t, meta["code_challenge_methods_supported"], "S256")
}

func TestRegister(t *testing.T) {
	s, _ := newTestStack(t)

	payload := `{"redirect_uris":["https://claude.ai/api/mcp/auth_callback"],"client_name":"Claude"}`
	req := httptest.NewRequest(http.MethodPost, "/oauth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["client_id"].(string), "claude_"))
	assert.Len(t, body["client_secret"].(string), 64)
	assert.Equal(t, "Claude", body["client_name"])
	assert.Equal(t, []interface{}{"https://claude.ai/api/mcp/auth_callback"}, body["redirect_uris"])
}

func TestRegisterRejectsBadBody(t *testing.T) {
	s, _ := newTestStack(t)

	req := httptest.NewRequest(http.MethodPost, "/oauth/register", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthorizeRedirects(t *testing.T) {
	s, _ := newTestStack(t)

	rec := get(t, s, "/oauth/authorize?client_id=c1&redirect_uri=https%3A%2F%2Fclaude.ai%2Fcb&response_type=code&state=xyz&code_challenge=abc")
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "upstream.example.com", location.Host)
	assert.Equal(t, "c1", location.Query().Get("client_id"))
	assert.Equal(t, "xyz", location.Query().Get("state"))
	assert.Equal(t, "ghl.full", location.Query().Get("scope"))
	assert.Equal(t, "abc", location.Query().Get("code_challenge"))
	assert.Equal(t, "S256", location.Query().Get("code_challenge_method"))
}

func TestAuthorizeRequiresParams(t *testing.T) {
	s, _ := newTestStack(t)

	rec := get(t, s, "/oauth/authorize?client_id=c1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "grant_type=authorization_code")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"issued"}`))
	}))
	defer upstream.Close()

	s, cfg := newTestStack(t)
	cfg.UpstreamTokenURL = upstream.URL

	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader("grant_type=authorization_code&code=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "issued")
}

func TestMCPEndpointRequiresAuth(t *testing.T) {
	s, _ := newTestStack(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["detail"])
}

func TestSSEEndpointRequiresAuth(t *testing.T) {
	s, _ := newTestStack(t)

	rec := get(t, s, "/sse")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestStack(t)

	req := httptest.NewRequest(http.MethodOptions, "/mcp", nil)
	req.Header.Set("Origin", "https://claude.ai")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("SERVER_URL", "https://public.example.com")

	cfg := FromEnv()
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "https://public.example.com", cfg.BaseURL)
	assert.Equal(t, DefaultUpstreamAuthorizeURL, cfg.UpstreamAuthorizeURL)
}
