package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/basicmachines/highlevel-mcp/ghl"
)

func (s *Server) registerConversationTools() {
	s.addTool(mcp.NewTool("search_conversations",
		mcp.WithDescription("Search conversation threads in a location."),
		mcp.WithString("query", mcp.Description("Free-text search over conversation content")),
		mcp.WithString("contact_id", mcp.Description("Only conversations with this contact")),
		mcp.WithString("assigned_to", mcp.Description("Only conversations assigned to this user")),
		mcp.WithBoolean("starred", mcp.Description("Only starred conversations")),
		mcp.WithBoolean("unread_only", mcp.Description("Only conversations with unread messages")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
		mcp.WithNumber("offset", mcp.Description("Results to skip for pagination")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleSearchConversations)

	s.addTool(mcp.NewTool("get_conversation",
		mcp.WithDescription("Get a single conversation thread by ID."),
		mcp.WithString("conversation_id", mcp.Description("Conversation ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetConversation)

	s.addTool(mcp.NewTool("get_conversation_messages",
		mcp.WithDescription("List the messages in a conversation, newest first."),
		mcp.WithString("conversation_id", mcp.Description("Conversation ID"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum messages to return (default 20)")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetConversationMessages)

	s.addTool(mcp.NewTool("send_message",
		mcp.WithDescription("Send an outbound message into a conversation. Type is one of SMS, Email, WhatsApp, FB, IG."),
		mcp.WithString("conversation_id", mcp.Description("Conversation ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Message channel: SMS, Email, WhatsApp, FB, or IG"), mcp.Required()),
		mcp.WithString("message", mcp.Description("Message body (plain text)")),
		mcp.WithString("subject", mcp.Description("Email subject (Email type only)")),
		mcp.WithString("html", mcp.Description("HTML body (Email type only)")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleSendMessage)

	s.addTool(mcp.NewTool("update_message_status",
		mcp.WithDescription("Update the delivery status of a message (e.g. mark as read)."),
		mcp.WithString("message_id", mcp.Description("Message ID"), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status: delivered, read, pending, undelivered, or failed"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleUpdateMessageStatus)
}

func (s *Server) handleSearchConversations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	conversations, err := s.client.SearchConversations(ctx, s.location(ctx, args), ghl.ConversationSearchOptions{
		Query:      argString(args, "query"),
		ContactID:  argString(args, "contact_id"),
		AssignedTo: argString(args, "assigned_to"),
		Starred:    argBool(args, "starred"),
		UnreadOnly: argBool(args, "unread_only"),
		Limit:      argInt(args, "limit", 20),
		Offset:     argInt(args, "offset", 0),
	})
	if err != nil {
		return s.toolError("search_conversations", err)
	}
	return jsonResult(map[string]interface{}{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

func (s *Server) handleGetConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	conversationID, err := req.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conversation, err := s.client.GetConversation(ctx, conversationID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_conversation", err)
	}
	return jsonResult(conversation)
}

func (s *Server) handleGetConversationMessages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	conversationID, err := req.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	messages, err := s.client.GetMessages(ctx, conversationID, s.location(ctx, args), argInt(args, "limit", 20))
	if err != nil {
		return s.toolError("get_conversation_messages", err)
	}
	return jsonResult(map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

func (s *Server) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	conversationID, err := req.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	messageType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.client.SendMessage(ctx, ghl.MessageCreate{
		Type:           messageType,
		ConversationID: conversationID,
		Message:        argString(args, "message"),
		Subject:        argString(args, "subject"),
		HTML:           argString(args, "html"),
	}, s.location(ctx, args))
	if err != nil {
		return s.toolError("send_message", err)
	}
	return jsonResult(result)
}

func (s *Server) handleUpdateMessageStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	messageID, err := req.RequireString("message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	message, err := s.client.UpdateMessageStatus(ctx, messageID, status, s.location(ctx, args))
	if err != nil {
		return s.toolError("update_message_status", err)
	}
	return jsonResult(message)
}
