package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/ghl"
	"github.com/basicmachines/highlevel-mcp/ghlauth"
	"github.com/basicmachines/highlevel-mcp/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio (local mode)",
	Long: `Start a Model Context Protocol server over stdio.

Uses the agency token stored by 'ghl-mcp setup', exchanging it for
location-scoped tokens as tools need them.

Configuration in Claude Desktop (claude_desktop_config.json):

  {
    "mcpServers": {
      "gohighlevel": {
        "command": "ghl-mcp",
        "args": ["serve"],
        "env": {
          "GHL_CLIENT_ID": "...",
          "GHL_CLIENT_SECRET": "...",
          "GHL_DEFAULT_LOCATION": "your-location-id"
        }
      }
    }
  }

Environment variables:
  GHL_CLIENT_ID         Marketplace app client ID (required)
  GHL_CLIENT_SECRET     Marketplace app client secret (required)
  GHL_DEFAULT_LOCATION  Location used when a tool call names none
  TOKEN_STORAGE_PATH    Token file path (default: ./config/tokens.json)`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := auth.DefaultLogger()

	service, err := ghlauth.NewService(ghlauth.SettingsFromEnv(), logger)
	if err != nil {
		return err
	}

	client := ghl.NewClient(service)
	srv := mcp.NewServer(client, os.Getenv("GHL_DEFAULT_LOCATION"), logger)
	return srv.Run()
}
