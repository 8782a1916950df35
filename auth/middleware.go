package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Middleware returns an authentication middleware for MCP tool handlers.
//
// The middleware:
//  1. Extracts the bearer token from context (set by HTTPContextFunc)
//  2. Validates it (cached for ValidationTTL) and resolves the location
//  3. Adds the AuthContext to context for tool handlers
//
// Use AuthContextFrom(ctx) in tool handlers to access the authenticated
// location and token.
func (a *Authenticator) Middleware() func(server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			token, ok := BearerTokenFrom(ctx)
			if !ok {
				a.logger.Info("No token in context for tool: %s", req.Params.Name)
				return nil, ErrMissingToken
			}

			ac, err := a.Authenticate(ctx, token)
			if err != nil {
				a.logger.Error("Authentication failed for tool %s: %v", req.Params.Name, err)
				return nil, err
			}

			return next(WithAuthContext(ctx, ac), req)
		}
	}
}

// HTTPContextFunc extracts the bearer token from the Authorization header
// into the request context. Use with server.WithHTTPContextFunc (streamable
// HTTP) or server.WithSSEContextFunc (SSE).
func HTTPContextFunc() func(context.Context, *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			ctx = WithBearerToken(ctx, token)
		}
		return ctx
	}
}

// WrapHandler rejects unauthenticated requests before they reach the MCP
// transport. Missing or rejected tokens get 401; an unreachable identity
// provider gets 503 so clients can retry instead of re-authenticating.
func (a *Authenticator) WrapHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		ac, err := a.Authenticate(r.Context(), token)
		if err != nil {
			writeAuthError(w, StatusFor(err), err.Error())
			return
		}

		ctx := WithBearerToken(r.Context(), token)
		ctx = WithAuthContext(ctx, ac)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
