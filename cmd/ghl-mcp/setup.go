package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/ghlauth"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the one-time marketplace OAuth flow",
	Long: `Authorize this server against your GoHighLevel marketplace app.

Opens the marketplace authorization page, waits for the callback on a
local port, and stores the resulting agency token for 'ghl-mcp serve'.

Environment variables:
  GHL_CLIENT_ID       Marketplace app client ID (required)
  GHL_CLIENT_SECRET   Marketplace app client secret (required)
  OAUTH_REDIRECT_URI  Callback URL registered with the app
                      (default: http://localhost:8080/oauth/callback)
  TOKEN_STORAGE_PATH  Token file path (default: ./config/tokens.json)`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	settings := ghlauth.SettingsFromEnv()
	service, err := ghlauth.NewService(settings, auth.DefaultLogger())
	if err != nil {
		return err
	}

	state, err := randomState()
	if err != nil {
		return err
	}

	fmt.Println("Open this URL in your browser to authorize:")
	fmt.Println()
	fmt.Println("  " + service.AuthCodeURL(state))
	fmt.Println()
	fmt.Printf("Waiting for the callback on port %d...\n", settings.CallbackPort)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	code, err := ghlauth.WaitForCallback(ctx, settings.CallbackPort, state)
	if err != nil {
		return err
	}

	token, err := service.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}

	fmt.Printf("Authorization complete. Token stored at %s (expires %s).\n",
		settings.TokenPath, token.ExpiresAt.Format(time.RFC3339))
	return nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
