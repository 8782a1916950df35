package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ghl-mcp",
	Short: "GoHighLevel MCP server",
	Long: `ghl-mcp exposes the GoHighLevel CRM as MCP tools.

Two deployment modes are supported:

  serve  Local mode: MCP over stdio, authenticated with an agency token
         obtained once via 'ghl-mcp setup'.
  http   Remote mode: MCP over streamable HTTP and SSE, each request
         authenticated with the caller's bearer token.`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(versionCmd)
}
