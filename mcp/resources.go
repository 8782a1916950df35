package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/basicmachines/highlevel-mcp/ghl"
)

// Read-only resource templates for browsing CRM data without tool calls.
// URIs follow ghl://<collection>/{locationId}.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		"ghl://contacts/{locationId}",
		"Location contacts",
		mcp.WithTemplateDescription("The most recent contacts in a location"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readResource("contacts", func(ctx context.Context, locationID string) (interface{}, error) {
		return s.client.SearchContacts(ctx, locationID, ghl.ContactSearchOptions{Limit: 100})
	}))

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		"ghl://pipelines/{locationId}",
		"Location pipelines",
		mcp.WithTemplateDescription("The sales pipelines and stages in a location"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readResource("pipelines", func(ctx context.Context, locationID string) (interface{}, error) {
		return s.client.GetPipelines(ctx, locationID)
	}))

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		"ghl://calendars/{locationId}",
		"Location calendars",
		mcp.WithTemplateDescription("The bookable calendars in a location"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readResource("calendars", func(ctx context.Context, locationID string) (interface{}, error) {
		return s.client.GetCalendars(ctx, locationID)
	}))

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(
		"ghl://forms/{locationId}",
		"Location forms",
		mcp.WithTemplateDescription("The lead-capture forms in a location"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readResource("forms", func(ctx context.Context, locationID string) (interface{}, error) {
		return s.client.GetForms(ctx, locationID, 100, 0)
	}))
}

// readResource adapts a fetch function into a resource handler, resolving
// the location from the URI path.
func (s *Server) readResource(collection string, fetch func(ctx context.Context, locationID string) (interface{}, error)) func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		locationID := locationFromURI(req.Params.URI, collection)
		if locationID == "" {
			locationID = s.location(ctx, nil)
		}

		result, err := fetch(ctx, locationID)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s for %s: %w", collection, locationID, err)
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

// locationFromURI extracts the location ID from ghl://<collection>/<id>.
func locationFromURI(uri, collection string) string {
	prefix := "ghl://" + collection + "/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(uri, prefix), "/")
}
