package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Form is a lead-capture form in a location.
type Form struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LocationID string `json:"locationId,omitempty"`
}

// FormList is a page of forms.
type FormList struct {
	Forms []Form `json:"forms"`
	Total int    `json:"total,omitempty"`
}

// FormSubmission is one submission of a form.
type FormSubmission struct {
	ID          string                 `json:"id"`
	FormID      string                 `json:"formId,omitempty"`
	ContactID   string                 `json:"contactId,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Email       string                 `json:"email,omitempty"`
	CreatedAt   string                 `json:"createdAt,omitempty"`
	Others      map[string]interface{} `json:"others,omitempty"`
}

// FormSubmissionList is a page of form submissions.
type FormSubmissionList struct {
	Submissions []FormSubmission       `json:"submissions"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}

// FormSubmissionOptions filter GetFormSubmissions.
type FormSubmissionOptions struct {
	FormID string
	Query  string
	Page   int
	Limit  int
}

// GetForms returns forms for a location.
func (c *Client) GetForms(ctx context.Context, locationID string, limit, skip int) (*FormList, error) {
	if limit <= 0 {
		limit = 50
	}

	query := url.Values{}
	query.Set("locationId", locationID)
	query.Set("limit", strconv.Itoa(limit))
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}

	raw, err := c.request(ctx, http.MethodGet, "/forms/", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var list FormList
	if err := unwrap(raw, "", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetFormSubmissions returns submissions for a location's forms.
func (c *Client) GetFormSubmissions(ctx context.Context, locationID string, opts FormSubmissionOptions) (*FormSubmissionList, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	query := url.Values{}
	query.Set("locationId", locationID)
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.FormID != "" {
		query.Set("formId", opts.FormID)
	}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}

	raw, err := c.request(ctx, http.MethodGet, "/forms/submissions", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var list FormSubmissionList
	if err := unwrap(raw, "", &list); err != nil {
		return nil, err
	}
	return &list, nil
}
