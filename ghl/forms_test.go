package ghl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetForms(t *testing.T) {
	client, cap := newTestClient(t, `{"forms":[{"id":"f1","name":"Quote request"}],"total":1}`)

	list, err := client.GetForms(context.Background(), "loc-1", 10, 0)
	require.NoError(t, err)

	assert.Equal(t, "/forms/", cap.Path)
	assert.Equal(t, "loc-1", cap.Query.Get("locationId"))
	assert.Equal(t, "10", cap.Query.Get("limit"))
	require.Len(t, list.Forms, 1)
	assert.Equal(t, "Quote request", list.Forms[0].Name)
}

func TestGetFormSubmissions(t *testing.T) {
	client, cap := newTestClient(t, `{"submissions":[{"id":"s1","formId":"f1","email":"a@b.com"}],"meta":{"total":1}}`)

	list, err := client.GetFormSubmissions(context.Background(), "loc-1", FormSubmissionOptions{
		FormID: "f1",
		Query:  "a@b.com",
		Page:   2,
		Limit:  25,
	})
	require.NoError(t, err)

	assert.Equal(t, "/forms/submissions", cap.Path)
	assert.Equal(t, "f1", cap.Query.Get("formId"))
	assert.Equal(t, "a@b.com", cap.Query.Get("q"))
	assert.Equal(t, "2", cap.Query.Get("page"))
	assert.Equal(t, "25", cap.Query.Get("limit"))
	require.Len(t, list.Submissions, 1)
}
