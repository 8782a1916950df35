package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/basicmachines/highlevel-mcp/ghl"
)

func (s *Server) registerFormTools() {
	s.addTool(mcp.NewTool("get_forms",
		mcp.WithDescription("List lead-capture forms in a location."),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 25)")),
		mcp.WithNumber("skip", mcp.Description("Results to skip for pagination")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetForms)

	s.addTool(mcp.NewTool("get_form_submissions",
		mcp.WithDescription("List submissions of forms in a location, optionally filtered to one form."),
		mcp.WithString("form_id", mcp.Description("Only submissions of this form")),
		mcp.WithString("query", mcp.Description("Free-text search over submitter name and email")),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.Description("Results per page (default 25)")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetFormSubmissions)
}

func (s *Server) handleGetForms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	forms, err := s.client.GetForms(ctx, s.location(ctx, args), argInt(args, "limit", 25), argInt(args, "skip", 0))
	if err != nil {
		return s.toolError("get_forms", err)
	}
	return jsonResult(forms)
}

func (s *Server) handleGetFormSubmissions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	submissions, err := s.client.GetFormSubmissions(ctx, s.location(ctx, args), ghl.FormSubmissionOptions{
		FormID: argString(args, "form_id"),
		Query:  argString(args, "query"),
		Page:   argInt(args, "page", 0),
		Limit:  argInt(args, "limit", 25),
	})
	if err != nil {
		return s.toolError("get_form_submissions", err)
	}
	return jsonResult(submissions)
}
