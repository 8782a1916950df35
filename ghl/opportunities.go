package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Opportunity is a deal in a pipeline.
type Opportunity struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name,omitempty"`
	LocationID      string  `json:"locationId,omitempty"`
	ContactID       string  `json:"contactId,omitempty"`
	PipelineID      string  `json:"pipelineId,omitempty"`
	PipelineStageID string  `json:"pipelineStageId,omitempty"`
	Status          string  `json:"status,omitempty"`
	Source          string  `json:"source,omitempty"`
	AssignedTo      string  `json:"assignedTo,omitempty"`
	MonetaryValue   float64 `json:"monetaryValue,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	UpdatedAt       string  `json:"updatedAt,omitempty"`
}

// OpportunityCreate is the payload for creating an opportunity.
type OpportunityCreate struct {
	LocationID      string  `json:"locationId"`
	PipelineID      string  `json:"pipelineId"`
	Name            string  `json:"name"`
	PipelineStageID string  `json:"pipelineStageId,omitempty"`
	Status          string  `json:"status,omitempty"`
	ContactID       string  `json:"contactId,omitempty"`
	AssignedTo      string  `json:"assignedTo,omitempty"`
	MonetaryValue   float64 `json:"monetaryValue,omitempty"`
	Source          string  `json:"source,omitempty"`
}

// OpportunityUpdate is the payload for updating an opportunity.
type OpportunityUpdate struct {
	Name            string  `json:"name,omitempty"`
	PipelineID      string  `json:"pipelineId,omitempty"`
	PipelineStageID string  `json:"pipelineStageId,omitempty"`
	Status          string  `json:"status,omitempty"`
	AssignedTo      string  `json:"assignedTo,omitempty"`
	MonetaryValue   float64 `json:"monetaryValue,omitempty"`
	Source          string  `json:"source,omitempty"`
}

// OpportunitySearchResult is a page of opportunities plus search metadata.
type OpportunitySearchResult struct {
	Opportunities []Opportunity          `json:"opportunities"`
	Meta          map[string]interface{} `json:"meta,omitempty"`
	Aggregations  map[string]interface{} `json:"aggregations,omitempty"`
}

// OpportunitySearchOptions filter SearchOpportunities. Status is one of
// open, won, lost, abandoned.
type OpportunitySearchOptions struct {
	PipelineID      string
	PipelineStageID string
	ContactID       string
	Status          string
	Query           string
	Limit           int
	Skip            int
}

// Pipeline is a sales pipeline.
type Pipeline struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	LocationID string          `json:"locationId,omitempty"`
	Stages     []PipelineStage `json:"stages,omitempty"`
}

// PipelineStage is a stage within a pipeline.
type PipelineStage struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position float64 `json:"position,omitempty"`
}

// SearchOpportunities returns opportunities for a location matching the
// options. The search endpoint takes location_id in snake case, unlike the
// rest of the API.
func (c *Client) SearchOpportunities(ctx context.Context, locationID string, opts OpportunitySearchOptions) (*OpportunitySearchResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := url.Values{}
	query.Set("location_id", locationID)
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Skip > 0 {
		query.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.PipelineID != "" {
		query.Set("pipeline_id", opts.PipelineID)
	}
	if opts.PipelineStageID != "" {
		query.Set("pipeline_stage_id", opts.PipelineStageID)
	}
	if opts.ContactID != "" {
		query.Set("contact_id", opts.ContactID)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}

	raw, err := c.request(ctx, http.MethodGet, "/opportunities/search", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var result OpportunitySearchResult
	if err := unwrap(raw, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOpportunity returns a single opportunity by ID.
func (c *Client) GetOpportunity(ctx context.Context, opportunityID, locationID string) (*Opportunity, error) {
	query := url.Values{}
	query.Set("locationId", locationID)

	raw, err := c.request(ctx, http.MethodGet, "/opportunities/"+opportunityID, query, nil, locationID)
	if err != nil {
		return nil, err
	}
	var opportunity Opportunity
	if err := unwrap(raw, "opportunity", &opportunity); err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// CreateOpportunity creates an opportunity.
func (c *Client) CreateOpportunity(ctx context.Context, create OpportunityCreate) (*Opportunity, error) {
	raw, err := c.request(ctx, http.MethodPost, "/opportunities/", nil, create, create.LocationID)
	if err != nil {
		return nil, err
	}
	var opportunity Opportunity
	if err := unwrap(raw, "opportunity", &opportunity); err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// UpdateOpportunity updates an existing opportunity.
func (c *Client) UpdateOpportunity(ctx context.Context, opportunityID string, updates OpportunityUpdate, locationID string) (*Opportunity, error) {
	raw, err := c.request(ctx, http.MethodPut, "/opportunities/"+opportunityID, nil, updates, locationID)
	if err != nil {
		return nil, err
	}
	var opportunity Opportunity
	if err := unwrap(raw, "opportunity", &opportunity); err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// DeleteOpportunity deletes an opportunity.
func (c *Client) DeleteOpportunity(ctx context.Context, opportunityID, locationID string) error {
	query := url.Values{}
	query.Set("locationId", locationID)
	_, err := c.request(ctx, http.MethodDelete, "/opportunities/"+opportunityID, query, nil, locationID)
	return err
}

type opportunityStatusPayload struct {
	LocationID string `json:"locationId"`
	Status     string `json:"status"`
}

// UpdateOpportunityStatus moves an opportunity to a new status.
func (c *Client) UpdateOpportunityStatus(ctx context.Context, opportunityID, status, locationID string) (*Opportunity, error) {
	payload := opportunityStatusPayload{LocationID: locationID, Status: status}
	raw, err := c.request(ctx, http.MethodPut, "/opportunities/"+opportunityID+"/status", nil, payload, locationID)
	if err != nil {
		return nil, err
	}
	var opportunity Opportunity
	if err := unwrap(raw, "opportunity", &opportunity); err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// GetPipelines returns all pipelines for a location.
func (c *Client) GetPipelines(ctx context.Context, locationID string) ([]Pipeline, error) {
	query := url.Values{}
	query.Set("locationId", locationID)

	raw, err := c.request(ctx, http.MethodGet, "/opportunities/pipelines", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var pipelines []Pipeline
	if err := unwrap(raw, "pipelines", &pipelines); err != nil {
		return nil, err
	}
	return pipelines, nil
}

// GetPipeline returns a single pipeline by ID.
func (c *Client) GetPipeline(ctx context.Context, pipelineID, locationID string) (*Pipeline, error) {
	pipelines, err := c.GetPipelines(ctx, locationID)
	if err != nil {
		return nil, err
	}
	for i := range pipelines {
		if pipelines[i].ID == pipelineID {
			return &pipelines[i], nil
		}
	}
	return nil, &APIError{
		StatusCode: http.StatusNotFound,
		Method:     http.MethodGet,
		Path:       "/opportunities/pipelines/" + pipelineID,
		Body:       "pipeline not found",
	}
}

// GetPipelineStages returns the stages of a pipeline.
func (c *Client) GetPipelineStages(ctx context.Context, pipelineID, locationID string) ([]PipelineStage, error) {
	pipeline, err := c.GetPipeline(ctx, pipelineID, locationID)
	if err != nil {
		return nil, err
	}
	return pipeline.Stages, nil
}
