package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLocationTools() {
	s.addTool(mcp.NewTool("search_locations",
		mcp.WithDescription("List the sub-account locations visible to the agency token."),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 100)")),
		mcp.WithNumber("skip", mcp.Description("Results to skip for pagination")),
	), s.handleSearchLocations)

	s.addTool(mcp.NewTool("get_location",
		mcp.WithDescription("Get details of a single location (sub-account)."),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetLocation)
}

func (s *Server) handleSearchLocations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	list, err := s.client.SearchLocations(ctx, argInt(args, "limit", 100), argInt(args, "skip", 0))
	if err != nil {
		return s.toolError("search_locations", err)
	}
	return jsonResult(list)
}

func (s *Server) handleGetLocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	locationID := s.location(ctx, args)
	location, err := s.client.GetLocation(ctx, locationID)
	if err != nil {
		return s.toolError("get_location", err)
	}
	return jsonResult(location)
}
