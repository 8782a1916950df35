package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/basicmachines/highlevel-mcp/ghl"
)

func (s *Server) registerContactTools() {
	s.addTool(mcp.NewTool("search_contacts",
		mcp.WithDescription("Search contacts in a location by free-text query, email, phone, or tags."),
		mcp.WithString("query", mcp.Description("Free-text search across name, email, and phone")),
		mcp.WithString("email", mcp.Description("Filter by exact email address")),
		mcp.WithString("phone", mcp.Description("Filter by phone number")),
		mcp.WithArray("tags", mcp.Description("Filter by tags (all must match)"), mcp.WithStringItems()),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 25, max 100)")),
		mcp.WithNumber("skip", mcp.Description("Results to skip for pagination")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleSearchContacts)

	s.addTool(mcp.NewTool("get_contact",
		mcp.WithDescription("Get a single contact by ID."),
		mcp.WithString("contact_id", mcp.Description("Contact ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetContact)

	s.addTool(mcp.NewTool("create_contact",
		mcp.WithDescription("Create a new contact in a location."),
		mcp.WithString("first_name", mcp.Description("First name")),
		mcp.WithString("last_name", mcp.Description("Last name")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("phone", mcp.Description("Phone number in E.164 format")),
		mcp.WithArray("tags", mcp.Description("Tags to apply"), mcp.WithStringItems()),
		mcp.WithString("source", mcp.Description("Lead source")),
		mcp.WithString("company_name", mcp.Description("Company name")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleCreateContact)

	s.addTool(mcp.NewTool("update_contact",
		mcp.WithDescription("Update fields on an existing contact. Omitted fields are left unchanged."),
		mcp.WithString("contact_id", mcp.Description("Contact ID"), mcp.Required()),
		mcp.WithString("first_name", mcp.Description("First name")),
		mcp.WithString("last_name", mcp.Description("Last name")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("phone", mcp.Description("Phone number")),
		mcp.WithArray("tags", mcp.Description("Replacement tag list"), mcp.WithStringItems()),
		mcp.WithString("source", mcp.Description("Lead source")),
		mcp.WithString("company_name", mcp.Description("Company name")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleUpdateContact)

	s.addTool(mcp.NewTool("delete_contact",
		mcp.WithDescription("Delete a contact permanently."),
		mcp.WithString("contact_id", mcp.Description("Contact ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleDeleteContact)

	s.addTool(mcp.NewTool("add_contact_tags",
		mcp.WithDescription("Add tags to a contact without touching its existing tags."),
		mcp.WithString("contact_id", mcp.Description("Contact ID"), mcp.Required()),
		mcp.WithArray("tags", mcp.Description("Tags to add"), mcp.WithStringItems(), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleAddContactTags)

	s.addTool(mcp.NewTool("remove_contact_tags",
		mcp.WithDescription("Remove tags from a contact."),
		mcp.WithString("contact_id", mcp.Description("Contact ID"), mcp.Required()),
		mcp.WithArray("tags", mcp.Description("Tags to remove"), mcp.WithStringItems(), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleRemoveContactTags)
}

func (s *Server) handleSearchContacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	list, err := s.client.SearchContacts(ctx, s.location(ctx, args), ghl.ContactSearchOptions{
		Query: argString(args, "query"),
		Email: argString(args, "email"),
		Phone: argString(args, "phone"),
		Tags:  argStrings(args, "tags"),
		Limit: argInt(args, "limit", 25),
		Skip:  argInt(args, "skip", 0),
	})
	if err != nil {
		return s.toolError("search_contacts", err)
	}
	return jsonResult(list)
}

func (s *Server) handleGetContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contact, err := s.client.GetContact(ctx, contactID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_contact", err)
	}
	return jsonResult(contact)
}

func (s *Server) handleCreateContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	contact, err := s.client.CreateContact(ctx, ghl.ContactCreate{
		LocationID:  s.location(ctx, args),
		FirstName:   argString(args, "first_name"),
		LastName:    argString(args, "last_name"),
		Email:       argString(args, "email"),
		Phone:       argString(args, "phone"),
		Tags:        argStrings(args, "tags"),
		Source:      argString(args, "source"),
		CompanyName: argString(args, "company_name"),
	})
	if err != nil {
		return s.toolError("create_contact", err)
	}
	return jsonResult(contact)
}

func (s *Server) handleUpdateContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contact, err := s.client.UpdateContact(ctx, contactID, ghl.ContactUpdate{
		FirstName:   argString(args, "first_name"),
		LastName:    argString(args, "last_name"),
		Email:       argString(args, "email"),
		Phone:       argString(args, "phone"),
		Tags:        argStrings(args, "tags"),
		Source:      argString(args, "source"),
		CompanyName: argString(args, "company_name"),
	}, s.location(ctx, args))
	if err != nil {
		return s.toolError("update_contact", err)
	}
	return jsonResult(contact)
}

func (s *Server) handleDeleteContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.client.DeleteContact(ctx, contactID, s.location(ctx, args)); err != nil {
		return s.toolError("delete_contact", err)
	}
	return jsonResult(map[string]interface{}{"succeeded": true, "contactId": contactID})
}

func (s *Server) handleAddContactTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contact, err := s.client.AddContactTags(ctx, contactID, argStrings(args, "tags"), s.location(ctx, args))
	if err != nil {
		return s.toolError("add_contact_tags", err)
	}
	return jsonResult(contact)
}

func (s *Server) handleRemoveContactTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contact, err := s.client.RemoveContactTags(ctx, contactID, argStrings(args, "tags"), s.location(ctx, args))
	if err != nil {
		return s.toolError("remove_contact_tags", err)
	}
	return jsonResult(contact)
}
