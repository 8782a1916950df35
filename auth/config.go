package auth

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultIdentityBaseURL is the identity provider used when SUPABASE_URL
	// is not set.
	DefaultIdentityBaseURL = "https://egigkzfowimxfavnjvpe.supabase.co"

	// DefaultLocationSentinel is returned by the resolver when a token
	// carries no locationId claim and no default location is configured.
	DefaultLocationSentinel = "test_location_id"

	// DefaultCacheSize bounds each token cache.
	DefaultCacheSize = 1000

	// ValidationTTL is how long a successful validation result is reused
	// without a network call.
	ValidationTTL = 5 * time.Minute

	// LocationTokenTTL is how long an exchanged location-scoped token is
	// reused without a network call.
	LocationTokenTTL = 30 * time.Minute
)

// Config holds authentication configuration.
type Config struct {
	// Mode selects the token validator: "remote" validates against the
	// identity provider endpoint, "hmac" verifies HS256 signatures locally
	// (development), "oidc" verifies against an OIDC issuer's JWKS.
	Mode string

	// IdentityBaseURL is the base URL of the identity provider hosting the
	// validation and token-exchange endpoints. Empty means
	// DefaultIdentityBaseURL.
	IdentityBaseURL string

	// DefaultLocation is returned when a token carries no locationId claim.
	// Empty means DefaultLocationSentinel.
	DefaultLocation string

	// OIDC / HMAC configuration, used by the matching modes only.
	Issuer    string
	Audience  string
	JWTSecret []byte

	// CacheSize bounds the validation and location-token caches.
	// Zero means DefaultCacheSize.
	CacheSize int

	// HTTPClient is used for calls to the identity provider. Nil means a
	// client with a 30-second timeout.
	HTTPClient *http.Client

	// Logger allows custom logging. Nil uses a default logger on
	// log.Printf with level prefixes.
	Logger Logger
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Mode == "" {
		c.Mode = "remote"
	}

	switch c.Mode {
	case "remote":
		// IdentityBaseURL defaults at construction time.
	case "hmac":
		if len(c.JWTSecret) == 0 {
			return fmt.Errorf("JWTSecret is required for hmac mode")
		}
		if c.Audience == "" {
			return fmt.Errorf("audience is required for hmac mode")
		}
	case "oidc":
		if c.Issuer == "" {
			return fmt.Errorf("issuer is required for oidc mode")
		}
		if c.Audience == "" {
			return fmt.Errorf("audience is required for oidc mode")
		}
	default:
		return fmt.Errorf("unknown auth mode: %s (supported: remote, hmac, oidc)", c.Mode)
	}

	return nil
}

// FromEnv creates a Config from environment variables.
func FromEnv() *Config {
	return &Config{
		Mode:            getEnv("AUTH_MODE", "remote"),
		IdentityBaseURL: getEnv("SUPABASE_URL", DefaultIdentityBaseURL),
		DefaultLocation: getEnv("GHL_DEFAULT_LOCATION", ""),
		Issuer:          getEnv("OIDC_ISSUER", ""),
		Audience:        getEnv("OIDC_AUDIENCE", ""),
		JWTSecret:       []byte(getEnv("JWT_SECRET", "")),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
