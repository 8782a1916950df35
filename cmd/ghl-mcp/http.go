package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/ghl"
	"github.com/basicmachines/highlevel-mcp/mcp"
	"github.com/basicmachines/highlevel-mcp/server"
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Start the MCP server over HTTP (remote mode)",
	Long: `Start a Model Context Protocol server over streamable HTTP and SSE.

Every request carries the caller's bearer token, which is validated
against the identity provider and lazily exchanged for a location-scoped
GoHighLevel token.

Environment variables:
  PORT                  Listen port (default: 8000)
  SERVER_URL            External URL, used in OAuth discovery metadata
  AUTH_MODE             remote (default), hmac, or oidc
  SUPABASE_URL          Identity provider base URL
  GHL_DEFAULT_LOCATION  Location used when a token names none`,
	RunE: runHTTP,
}

func runHTTP(cmd *cobra.Command, args []string) error {
	logger := auth.DefaultLogger()

	authCfg := auth.FromEnv()
	authCfg.Logger = logger
	authenticator, err := auth.NewAuthenticator(authCfg)
	if err != nil {
		return err
	}

	// Per-request tokens: the caller's bearer token for agency-level calls,
	// exchanged for a location-scoped token otherwise.
	tokens := ghl.TokenProviderFunc(func(ctx context.Context, locationID string) (string, error) {
		ac, ok := auth.AuthContextFrom(ctx)
		if !ok {
			return "", auth.ErrMissingToken
		}
		if locationID == "" {
			return ac.Token, nil
		}
		return authenticator.Exchange(ctx, ac.Token, locationID), nil
	})
	client := ghl.NewClient(tokens)

	mcpSrv := mcp.NewServer(client, authCfg.DefaultLocation, logger,
		mcpserver.WithToolHandlerMiddleware(authenticator.Middleware()))

	srv := server.New(server.FromEnv(), mcpSrv, authenticator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
