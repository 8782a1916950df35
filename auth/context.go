package auth

import "context"

// Context keys
type contextKey string

const (
	bearerTokenKey contextKey = "bearer_token"
	authContextKey contextKey = "auth_context"
)

// AuthContext is the per-request result of authentication: the resolved
// location and the bearer token the caller presented. It is attached to the
// request context and never persisted.
type AuthContext struct {
	LocationID string
	Token      string
}

// WithBearerToken adds a bearer token to the context.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}

// BearerTokenFrom extracts a bearer token from the context.
func BearerTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerTokenKey).(string)
	return token, ok
}

// WithAuthContext adds an authenticated request context.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// AuthContextFrom extracts the authenticated request context.
// Returns the AuthContext and true if authentication succeeded.
//
// Example:
//
//	func toolHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
//	    ac, ok := auth.AuthContextFrom(ctx)
//	    if !ok {
//	        return nil, fmt.Errorf("authentication required")
//	    }
//	    // Use ac.LocationID, ac.Token
//	}
func AuthContextFrom(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey).(*AuthContext)
	return ac, ok
}
