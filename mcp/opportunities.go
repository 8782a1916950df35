package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/basicmachines/highlevel-mcp/ghl"
)

func (s *Server) registerOpportunityTools() {
	s.addTool(mcp.NewTool("search_opportunities",
		mcp.WithDescription("Search opportunities (deals) in a location."),
		mcp.WithString("query", mcp.Description("Free-text search over opportunity names")),
		mcp.WithString("pipeline_id", mcp.Description("Only opportunities in this pipeline")),
		mcp.WithString("pipeline_stage_id", mcp.Description("Only opportunities in this stage")),
		mcp.WithString("contact_id", mcp.Description("Only opportunities for this contact")),
		mcp.WithString("status", mcp.Description("Filter by status: open, won, lost, or abandoned")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
		mcp.WithNumber("skip", mcp.Description("Results to skip for pagination")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleSearchOpportunities)

	s.addTool(mcp.NewTool("get_opportunity",
		mcp.WithDescription("Get a single opportunity by ID."),
		mcp.WithString("opportunity_id", mcp.Description("Opportunity ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetOpportunity)

	s.addTool(mcp.NewTool("create_opportunity",
		mcp.WithDescription("Create an opportunity in a pipeline."),
		mcp.WithString("pipeline_id", mcp.Description("Pipeline ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Opportunity name"), mcp.Required()),
		mcp.WithString("pipeline_stage_id", mcp.Description("Stage ID (defaults to the first stage)")),
		mcp.WithString("status", mcp.Description("Status: open, won, lost, or abandoned (default open)")),
		mcp.WithString("contact_id", mcp.Description("Contact to attach")),
		mcp.WithNumber("monetary_value", mcp.Description("Deal value")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleCreateOpportunity)

	s.addTool(mcp.NewTool("update_opportunity",
		mcp.WithDescription("Update fields on an opportunity. Omitted fields are left unchanged."),
		mcp.WithString("opportunity_id", mcp.Description("Opportunity ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Opportunity name")),
		mcp.WithString("pipeline_id", mcp.Description("Move to this pipeline")),
		mcp.WithString("pipeline_stage_id", mcp.Description("Move to this stage")),
		mcp.WithString("status", mcp.Description("Status: open, won, lost, or abandoned")),
		mcp.WithNumber("monetary_value", mcp.Description("Deal value")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleUpdateOpportunity)

	s.addTool(mcp.NewTool("delete_opportunity",
		mcp.WithDescription("Delete an opportunity permanently."),
		mcp.WithString("opportunity_id", mcp.Description("Opportunity ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleDeleteOpportunity)

	s.addTool(mcp.NewTool("update_opportunity_status",
		mcp.WithDescription("Change only the status of an opportunity."),
		mcp.WithString("opportunity_id", mcp.Description("Opportunity ID"), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status: open, won, lost, or abandoned"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleUpdateOpportunityStatus)

	s.addTool(mcp.NewTool("get_pipelines",
		mcp.WithDescription("List all sales pipelines in a location, including their stages."),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetPipelines)

	s.addTool(mcp.NewTool("get_pipeline",
		mcp.WithDescription("Get a single pipeline by ID, including its stages."),
		mcp.WithString("pipeline_id", mcp.Description("Pipeline ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetPipeline)

	s.addTool(mcp.NewTool("get_pipeline_stages",
		mcp.WithDescription("List the stages of a pipeline in order."),
		mcp.WithString("pipeline_id", mcp.Description("Pipeline ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetPipelineStages)
}

func (s *Server) handleSearchOpportunities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	result, err := s.client.SearchOpportunities(ctx, s.location(ctx, args), ghl.OpportunitySearchOptions{
		Query:           argString(args, "query"),
		PipelineID:      argString(args, "pipeline_id"),
		PipelineStageID: argString(args, "pipeline_stage_id"),
		ContactID:       argString(args, "contact_id"),
		Status:          argString(args, "status"),
		Limit:           argInt(args, "limit", 20),
		Skip:            argInt(args, "skip", 0),
	})
	if err != nil {
		return s.toolError("search_opportunities", err)
	}
	return jsonResult(result)
}

func (s *Server) handleGetOpportunity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	opportunityID, err := req.RequireString("opportunity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opportunity, err := s.client.GetOpportunity(ctx, opportunityID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_opportunity", err)
	}
	return jsonResult(opportunity)
}

func (s *Server) handleCreateOpportunity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pipelineID, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opportunity, err := s.client.CreateOpportunity(ctx, ghl.OpportunityCreate{
		LocationID:      s.location(ctx, args),
		PipelineID:      pipelineID,
		Name:            name,
		PipelineStageID: argString(args, "pipeline_stage_id"),
		Status:          argString(args, "status"),
		ContactID:       argString(args, "contact_id"),
		MonetaryValue:   argFloat(args, "monetary_value"),
	})
	if err != nil {
		return s.toolError("create_opportunity", err)
	}
	return jsonResult(opportunity)
}

func (s *Server) handleUpdateOpportunity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	opportunityID, err := req.RequireString("opportunity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opportunity, err := s.client.UpdateOpportunity(ctx, opportunityID, ghl.OpportunityUpdate{
		Name:            argString(args, "name"),
		PipelineID:      argString(args, "pipeline_id"),
		PipelineStageID: argString(args, "pipeline_stage_id"),
		Status:          argString(args, "status"),
		MonetaryValue:   argFloat(args, "monetary_value"),
	}, s.location(ctx, args))
	if err != nil {
		return s.toolError("update_opportunity", err)
	}
	return jsonResult(opportunity)
}

func (s *Server) handleDeleteOpportunity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	opportunityID, err := req.RequireString("opportunity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.client.DeleteOpportunity(ctx, opportunityID, s.location(ctx, args)); err != nil {
		return s.toolError("delete_opportunity", err)
	}
	return jsonResult(map[string]interface{}{"succeeded": true, "opportunityId": opportunityID})
}

func (s *Server) handleUpdateOpportunityStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	opportunityID, err := req.RequireString("opportunity_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opportunity, err := s.client.UpdateOpportunityStatus(ctx, opportunityID, status, s.location(ctx, args))
	if err != nil {
		return s.toolError("update_opportunity_status", err)
	}
	return jsonResult(opportunity)
}

func (s *Server) handleGetPipelines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pipelines, err := s.client.GetPipelines(ctx, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_pipelines", err)
	}
	return jsonResult(map[string]interface{}{
		"pipelines": pipelines,
		"count":     len(pipelines),
	})
}

func (s *Server) handleGetPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pipelineID, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pipeline, err := s.client.GetPipeline(ctx, pipelineID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_pipeline", err)
	}
	return jsonResult(pipeline)
}

func (s *Server) handleGetPipelineStages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pipelineID, err := req.RequireString("pipeline_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stages, err := s.client.GetPipelineStages(ctx, pipelineID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_pipeline_stages", err)
	}
	return jsonResult(map[string]interface{}{
		"stages": stages,
		"count":  len(stages),
	})
}
