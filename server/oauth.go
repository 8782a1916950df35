package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// handleHealth reports liveness plus how many tools are loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"service":      "GoHighLevel MCP Server",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"tools_loaded": s.mcp.ToolCount(),
	})
}

// handleMetadata serves OAuth 2.0 Authorization Server Metadata (RFC 8414)
// so MCP clients can discover the authorization and registration endpoints.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")

	switch r.Method {
	case http.MethodOptions, http.MethodHead:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	base := trimBase(s.config.BaseURL)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"issuer":                                base,
		"authorization_endpoint":                base + "/oauth/authorize",
		"token_endpoint":                        base + "/oauth/token",
		"registration_endpoint":                 base + "/oauth/register",
		"response_types_supported":              []string{"code"},
		"grant_types_supported":                 []string{"authorization_code", "refresh_token"},
		"code_challenge_methods_supported":      []string{"S256"},
		"token_endpoint_auth_methods_supported": []string{"client_secret_post"},
		"scopes_supported":                      []string{"ghl.full"},
	})
}

// handleRegister implements dynamic client registration (RFC 7591). Hosted
// clients register themselves before starting the authorization flow; the
// issued credentials are not persisted since the upstream provider does the
// actual token issuance.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		RedirectURIs []string `json:"redirect_uris"`
		ClientName   string   `json:"client_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_client_metadata"})
		return
	}
	if req.ClientName == "" {
		req.ClientName = "Claude.ai"
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}

	now := time.Now().UTC()
	s.logger.Info("Registered OAuth client %q with %d redirect URIs", req.ClientName, len(req.RedirectURIs))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"client_id":                  fmt.Sprintf("claude_%d", now.UnixNano()),
		"client_secret":              hex.EncodeToString(secret),
		"client_id_issued_at":        now.Unix(),
		"grant_types":                []string{"authorization_code", "refresh_token"},
		"response_types":             []string{"code"},
		"redirect_uris":              req.RedirectURIs,
		"client_name":                req.ClientName,
		"token_endpoint_auth_method": "client_secret_post",
	})
}

// handleAuthorize forwards the authorization request to the upstream hosted
// OAuth flow, preserving the client's PKCE parameters.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	for _, required := range []string{"client_id", "redirect_uri", "response_type", "state"} {
		if query.Get(required) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_request",
				"error_description": "missing " + required,
			})
			return
		}
	}

	params := url.Values{}
	params.Set("client_id", query.Get("client_id"))
	params.Set("redirect_uri", query.Get("redirect_uri"))
	params.Set("response_type", query.Get("response_type"))
	params.Set("state", query.Get("state"))

	scope := query.Get("scope")
	if scope == "" {
		scope = "ghl.full"
	}
	params.Set("scope", scope)

	if challenge := query.Get("code_challenge"); challenge != "" {
		params.Set("code_challenge", challenge)
		method := query.Get("code_challenge_method")
		if method == "" {
			method = "S256"
		}
		params.Set("code_challenge_method", method)
	}

	http.Redirect(w, r, s.config.UpstreamAuthorizeURL+"?"+params.Encode(), http.StatusFound)
}

// handleToken forwards token exchange requests to the upstream provider and
// relays the response unchanged. The upstream is the issuer of record; this
// server never mints tokens itself.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, s.config.UpstreamTokenURL, r.Body)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}
	req.Header.Set("Content-Type", r.Header.Get("Content-Type"))
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.logger.Error("Token exchange with upstream failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "temporarily_unavailable"})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
