package ghl

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchOpportunitiesSnakeCaseParams(t *testing.T) {
	client, cap := newTestClient(t, `{"opportunities":[{"id":"o1"}],"meta":{"total":1}}`)

	result, err := client.SearchOpportunities(context.Background(), "loc-1", OpportunitySearchOptions{
		PipelineID: "pipe-1",
		ContactID:  "c1",
		Status:     "open",
		Query:      "roof",
		Limit:      20,
	})
	require.NoError(t, err)

	// The search endpoint uses snake_case, unlike the rest of the API.
	assert.Equal(t, "/opportunities/search", cap.Path)
	assert.Equal(t, "loc-1", cap.Query.Get("location_id"))
	assert.Equal(t, "pipe-1", cap.Query.Get("pipeline_id"))
	assert.Equal(t, "c1", cap.Query.Get("contact_id"))
	assert.Equal(t, "open", cap.Query.Get("status"))
	assert.Equal(t, "roof", cap.Query.Get("q"))

	assert.Len(t, result.Opportunities, 1)
}

func TestUpdateOpportunityStatus(t *testing.T) {
	client, cap := newTestClient(t, `{"opportunity":{"id":"o1","status":"won"}}`)

	opportunity, err := client.UpdateOpportunityStatus(context.Background(), "o1", "won", "loc-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, cap.Method)
	assert.Equal(t, "/opportunities/o1/status", cap.Path)
	assert.JSONEq(t, `{"locationId":"loc-1","status":"won"}`, string(cap.Body))
	assert.Equal(t, "won", opportunity.Status)
}

func TestGetPipelines(t *testing.T) {
	client, cap := newTestClient(t, `{"pipelines":[{"id":"pipe-1","name":"Sales","stages":[{"id":"s1","name":"New"}]}]}`)

	pipelines, err := client.GetPipelines(context.Background(), "loc-1")
	require.NoError(t, err)

	assert.Equal(t, "/opportunities/pipelines", cap.Path)
	assert.Equal(t, "loc-1", cap.Query.Get("locationId"))
	require.Len(t, pipelines, 1)
	assert.Equal(t, "Sales", pipelines[0].Name)
}

func TestGetPipelineFiltersListing(t *testing.T) {
	client, _ := newTestClient(t, `{"pipelines":[{"id":"pipe-1","name":"Sales"},{"id":"pipe-2","name":"Support"}]}`)

	pipeline, err := client.GetPipeline(context.Background(), "pipe-2", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "Support", pipeline.Name)
}

func TestGetPipelineNotFound(t *testing.T) {
	client, _ := newTestClient(t, `{"pipelines":[{"id":"pipe-1","name":"Sales"}]}`)

	_, err := client.GetPipeline(context.Background(), "missing", "loc-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.True(t, IsNotFound(err))
}

func TestGetPipelineStages(t *testing.T) {
	client, _ := newTestClient(t, `{"pipelines":[{"id":"pipe-1","name":"Sales","stages":[{"id":"s1","name":"New"},{"id":"s2","name":"Quoted"}]}]}`)

	stages, err := client.GetPipelineStages(context.Background(), "pipe-1", "loc-1")
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "Quoted", stages[1].Name)
}
