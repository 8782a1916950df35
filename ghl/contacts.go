package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CustomField is a custom field value attached to a contact.
type CustomField struct {
	ID    string      `json:"id,omitempty"`
	Key   string      `json:"key,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

// Contact is a GoHighLevel contact.
type Contact struct {
	ID          string        `json:"id,omitempty"`
	LocationID  string        `json:"locationId"`
	FirstName   string        `json:"firstName,omitempty"`
	LastName    string        `json:"lastName,omitempty"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Address1    string        `json:"address1,omitempty"`
	City        string        `json:"city,omitempty"`
	State       string        `json:"state,omitempty"`
	Country     string        `json:"country,omitempty"`
	PostalCode  string        `json:"postalCode,omitempty"`
	Website     string        `json:"website,omitempty"`
	Timezone    string        `json:"timezone,omitempty"`
	DND         bool          `json:"dnd,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Source      string        `json:"source,omitempty"`
	CompanyName string        `json:"companyName,omitempty"`
	AssignedTo  string        `json:"assignedTo,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
	DateAdded   *time.Time    `json:"dateAdded,omitempty"`
	DateUpdated *time.Time    `json:"dateUpdated,omitempty"`
}

// ContactCreate is the payload for creating a contact.
type ContactCreate struct {
	LocationID  string        `json:"locationId"`
	FirstName   string        `json:"firstName,omitempty"`
	LastName    string        `json:"lastName,omitempty"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Address1    string        `json:"address1,omitempty"`
	City        string        `json:"city,omitempty"`
	State       string        `json:"state,omitempty"`
	PostalCode  string        `json:"postalCode,omitempty"`
	Website     string        `json:"website,omitempty"`
	Timezone    string        `json:"timezone,omitempty"`
	DND         bool          `json:"dnd,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Source      string        `json:"source,omitempty"`
	CompanyName string        `json:"companyName,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// ContactUpdate is the payload for updating a contact. Zero-valued fields
// are left unchanged.
type ContactUpdate struct {
	FirstName   string        `json:"firstName,omitempty"`
	LastName    string        `json:"lastName,omitempty"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Address1    string        `json:"address1,omitempty"`
	City        string        `json:"city,omitempty"`
	State       string        `json:"state,omitempty"`
	PostalCode  string        `json:"postalCode,omitempty"`
	Website     string        `json:"website,omitempty"`
	Timezone    string        `json:"timezone,omitempty"`
	DND         *bool         `json:"dnd,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Source      string        `json:"source,omitempty"`
	CompanyName string        `json:"companyName,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// ContactList is a page of contacts.
type ContactList struct {
	Contacts []Contact `json:"contacts"`
	Count    int       `json:"count"`
	Total    int       `json:"total,omitempty"`
}

// ContactSearchOptions filter SearchContacts.
type ContactSearchOptions struct {
	Query string
	Email string
	Phone string
	Tags  []string
	Limit int
	Skip  int
}

// SearchContacts returns contacts for a location matching the options.
func (c *Client) SearchContacts(ctx context.Context, locationID string, opts ContactSearchOptions) (*ContactList, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := url.Values{}
	query.Set("locationId", locationID)
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Skip > 0 {
		query.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Query != "" {
		query.Set("query", opts.Query)
	}
	if opts.Email != "" {
		query.Set("email", opts.Email)
	}
	if opts.Phone != "" {
		query.Set("phone", opts.Phone)
	}
	if len(opts.Tags) > 0 {
		query.Set("tags", strings.Join(opts.Tags, ","))
	}

	raw, err := c.request(ctx, http.MethodGet, "/contacts/", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var list ContactList
	if err := unwrap(raw, "", &list); err != nil {
		return nil, err
	}
	list.Count = len(list.Contacts)
	return &list, nil
}

// GetContact returns a single contact by ID.
func (c *Client) GetContact(ctx context.Context, contactID, locationID string) (*Contact, error) {
	raw, err := c.request(ctx, http.MethodGet, "/contacts/"+contactID, nil, nil, locationID)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := unwrap(raw, "contact", &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact in the location named by create.LocationID.
func (c *Client) CreateContact(ctx context.Context, create ContactCreate) (*Contact, error) {
	raw, err := c.request(ctx, http.MethodPost, "/contacts/", nil, create, create.LocationID)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := unwrap(raw, "contact", &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact updates an existing contact.
func (c *Client) UpdateContact(ctx context.Context, contactID string, updates ContactUpdate, locationID string) (*Contact, error) {
	raw, err := c.request(ctx, http.MethodPut, "/contacts/"+contactID, nil, updates, locationID)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := unwrap(raw, "contact", &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact deletes a contact.
func (c *Client) DeleteContact(ctx context.Context, contactID, locationID string) error {
	_, err := c.request(ctx, http.MethodDelete, "/contacts/"+contactID, nil, nil, locationID)
	return err
}

type tagsPayload struct {
	Tags []string `json:"tags"`
}

// AddContactTags adds tags to a contact and returns the updated contact.
func (c *Client) AddContactTags(ctx context.Context, contactID string, tags []string, locationID string) (*Contact, error) {
	raw, err := c.request(ctx, http.MethodPost, "/contacts/"+contactID+"/tags", nil, tagsPayload{Tags: tags}, locationID)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := unwrap(raw, "contact", &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// RemoveContactTags removes tags from a contact and returns the updated
// contact.
func (c *Client) RemoveContactTags(ctx context.Context, contactID string, tags []string, locationID string) (*Contact, error) {
	raw, err := c.request(ctx, http.MethodDelete, "/contacts/"+contactID+"/tags", nil, tagsPayload{Tags: tags}, locationID)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := unwrap(raw, "contact", &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}
