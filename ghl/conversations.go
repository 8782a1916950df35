package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Conversation is a GoHighLevel conversation thread.
type Conversation struct {
	ID              string `json:"id"`
	LocationID      string `json:"locationId,omitempty"`
	ContactID       string `json:"contactId,omitempty"`
	Type            string `json:"type,omitempty"`
	UnreadCount     int    `json:"unreadCount,omitempty"`
	FullName        string `json:"fullName,omitempty"`
	ContactName     string `json:"contactName,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	LastMessageBody string `json:"lastMessageBody,omitempty"`
	LastMessageType string `json:"lastMessageType,omitempty"`
	Starred         bool   `json:"starred,omitempty"`
}

// Message is a single message inside a conversation.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId,omitempty"`
	LocationID     string `json:"locationId,omitempty"`
	ContactID      string `json:"contactId,omitempty"`
	Type           string `json:"type,omitempty"`
	MessageType    string `json:"messageType,omitempty"`
	Direction      string `json:"direction,omitempty"`
	Status         string `json:"status,omitempty"`
	Body           string `json:"body,omitempty"`
	DateAdded      string `json:"dateAdded,omitempty"`
}

// MessageCreate is the payload for sending a message. Type is one of SMS,
// Email, WhatsApp, FB, IG.
type MessageCreate struct {
	Type           string   `json:"type"`
	ConversationID string   `json:"conversationId"`
	Message        string   `json:"message,omitempty"`
	HTML           string   `json:"html,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Text           string   `json:"text,omitempty"`
	Attachments    []string `json:"attachments,omitempty"`
	EmailFrom      string   `json:"emailFrom,omitempty"`
	EmailTo        string   `json:"emailTo,omitempty"`
	EmailCC        string   `json:"emailCc,omitempty"`
	EmailBCC       string   `json:"emailBcc,omitempty"`
}

// SendMessageResult identifies the message created by SendMessage.
type SendMessageResult struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// ConversationSearchOptions filter SearchConversations.
type ConversationSearchOptions struct {
	ContactID  string
	AssignedTo string
	Query      string
	Starred    bool
	UnreadOnly bool
	Limit      int
	Offset     int
}

// SearchConversations returns conversations for a location.
func (c *Client) SearchConversations(ctx context.Context, locationID string, opts ConversationSearchOptions) ([]Conversation, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	query := url.Values{}
	query.Set("locationId", locationID)
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.ContactID != "" {
		query.Set("contactId", opts.ContactID)
	}
	if opts.AssignedTo != "" {
		query.Set("assignedTo", opts.AssignedTo)
	}
	if opts.Query != "" {
		query.Set("query", opts.Query)
	}
	if opts.Starred {
		query.Set("starred", "true")
	}
	if opts.UnreadOnly {
		query.Set("status", "unread")
	}

	raw, err := c.request(ctx, http.MethodGet, "/conversations/search", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var conversations []Conversation
	if err := unwrap(raw, "conversations", &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetConversation returns a single conversation by ID.
func (c *Client) GetConversation(ctx context.Context, conversationID, locationID string) (*Conversation, error) {
	raw, err := c.request(ctx, http.MethodGet, "/conversations/"+conversationID, nil, nil, locationID)
	if err != nil {
		return nil, err
	}
	var conversation Conversation
	if err := unwrap(raw, "conversation", &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetMessages returns messages in a conversation, newest first.
func (c *Client) GetMessages(ctx context.Context, conversationID, locationID string, limit int) ([]Message, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	raw, err := c.request(ctx, http.MethodGet, "/conversations/"+conversationID+"/messages", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var messages []Message
	if err := unwrap(raw, "messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage sends a message in a conversation.
func (c *Client) SendMessage(ctx context.Context, message MessageCreate, locationID string) (*SendMessageResult, error) {
	raw, err := c.request(ctx, http.MethodPost, "/conversations/messages", nil, message, locationID)
	if err != nil {
		return nil, err
	}
	var result SendMessageResult
	if err := unwrap(raw, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type messageStatusPayload struct {
	Status string `json:"status"`
}

// UpdateMessageStatus updates delivery status of an outbound message.
func (c *Client) UpdateMessageStatus(ctx context.Context, messageID, status, locationID string) (*Message, error) {
	raw, err := c.request(ctx, http.MethodPut, "/conversations/messages/"+messageID+"/status", nil, messageStatusPayload{Status: status}, locationID)
	if err != nil {
		return nil, err
	}
	var message Message
	if err := unwrap(raw, "message", &message); err != nil {
		return nil, err
	}
	return &message, nil
}
