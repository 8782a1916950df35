// Package mcp exposes the GoHighLevel API as MCP tools and resources.
//
// The server registers one tool per CRM operation (contacts, conversations,
// opportunities, calendars, forms, locations) plus read-only resource
// templates for common listings. Tool handlers resolve the target location
// from an explicit location_id argument, the authenticated request context,
// or the configured default, in that order.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/ghl"
)

const serverName = "ghl-mcp-server"

// Version is set at build time via ldflags.
var Version = "dev"

// Server wraps an MCP server with the GoHighLevel tool surface.
type Server struct {
	client          *ghl.Client
	mcpServer       *server.MCPServer
	defaultLocation string
	logger          auth.Logger
	toolCount       int
}

// NewServer creates the MCP server and registers all tools and resources.
// Extra server options (e.g. an authentication middleware via
// server.WithToolHandlerMiddleware) are appended after the defaults.
func NewServer(client *ghl.Client, defaultLocation string, logger auth.Logger, opts ...server.ServerOption) *Server {
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	s := &Server{
		client:          client,
		defaultLocation: defaultLocation,
		logger:          logger,
	}

	options := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
	}
	options = append(options, opts...)

	s.mcpServer = server.NewMCPServer(serverName, Version, options...)

	s.registerContactTools()
	s.registerConversationTools()
	s.registerOpportunityTools()
	s.registerCalendarTools()
	s.registerFormTools()
	s.registerLocationTools()
	s.registerResources()

	return s
}

// MCPServer returns the underlying server for transport wiring.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ToolCount reports how many tools are registered.
func (s *Server) ToolCount() int {
	return s.toolCount
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.toolCount++
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run() error {
	s.logger.Info("Starting %s %s on stdio", serverName, Version)
	return server.ServeStdio(s.mcpServer)
}

// location resolves which sub-account a tool call targets: an explicit
// location_id argument wins, then the authenticated caller's location, then
// the configured default.
func (s *Server) location(ctx context.Context, args map[string]interface{}) string {
	if v, ok := args["location_id"].(string); ok && v != "" {
		return v
	}
	if ac, ok := auth.AuthContextFrom(ctx); ok && ac.LocationID != "" {
		return ac.LocationID
	}
	return s.defaultLocation
}

// Argument helpers. MCP arguments arrive as decoded JSON, so numbers are
// float64 and arrays are []interface{}.

func argString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func argInt(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func argFloat(args map[string]interface{}, key string) float64 {
	v, _ := args[key].(float64)
	return v
}

func argBool(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func argStrings(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// jsonResult renders a value as an indented JSON text result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports an operation failure to the client as a tool error
// rather than a protocol error, so the model can react to it.
func (s *Server) toolError(op string, err error) (*mcp.CallToolResult, error) {
	s.logger.Warn("%s failed: %v", op, err)
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err)), nil
}
