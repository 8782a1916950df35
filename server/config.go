package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/basicmachines/highlevel-mcp/auth"
)

const (
	// DefaultPort is the HTTP listen port when PORT is unset.
	DefaultPort = 8000

	// DefaultUpstreamAuthorizeURL hosts the hosted OAuth consent flow that
	// authorization requests are forwarded to.
	DefaultUpstreamAuthorizeURL = "https://basicmachines.co/oauth/gohighlevel"

	// DefaultUpstreamTokenURL receives forwarded token exchange requests.
	DefaultUpstreamTokenURL = "https://basicmachines.co/oauth/token"
)

// Config for the remote HTTP transport.
type Config struct {
	// Port to listen on.
	Port int

	// BaseURL is the externally visible URL of this server, used as the
	// issuer in OAuth discovery metadata.
	BaseURL string

	// UpstreamAuthorizeURL receives forwarded authorization requests.
	UpstreamAuthorizeURL string

	// UpstreamTokenURL receives forwarded token exchange requests.
	UpstreamTokenURL string

	// Logger defaults to the standard log package when nil.
	Logger auth.Logger
}

// FromEnv builds a Config from PORT, SERVER_URL, and OAUTH_AUTHORIZE_URL.
func FromEnv() *Config {
	port := DefaultPort
	if raw := os.Getenv("PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			port = parsed
		}
	}

	return &Config{
		Port:                 port,
		BaseURL:              getEnv("SERVER_URL", fmt.Sprintf("http://localhost:%d", port)),
		UpstreamAuthorizeURL: getEnv("OAUTH_AUTHORIZE_URL", DefaultUpstreamAuthorizeURL),
		UpstreamTokenURL:     getEnv("OAUTH_TOKEN_URL", DefaultUpstreamTokenURL),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
