package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basicmachines/highlevel-mcp/auth"
	"github.com/basicmachines/highlevel-mcp/ghl"
)

// newTestServer backs the tool surface with a fake CRM API.
func newTestServer(t *testing.T, response string) (*Server, *httptest.Server) {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(api.Close)

	tokens := ghl.TokenProviderFunc(func(ctx context.Context, locationID string) (string, error) {
		return "test-token", nil
	})
	client := ghl.NewClient(tokens, ghl.WithBaseURL(api.URL), ghl.WithHTTPClient(api.Client()))

	return NewServer(client, "default-loc", nil), api
}

func callReq(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestToolCount(t *testing.T) {
	s, _ := newTestServer(t, `{}`)
	assert.Equal(t, 33, s.ToolCount())
}

func TestLocationPrecedence(t *testing.T) {
	s, _ := newTestServer(t, `{}`)

	// Explicit argument wins.
	got := s.location(context.Background(), map[string]interface{}{"location_id": "explicit"})
	assert.Equal(t, "explicit", got)

	// Authenticated location next.
	ctx := auth.WithAuthContext(context.Background(), &auth.AuthContext{LocationID: "from-auth"})
	assert.Equal(t, "from-auth", s.location(ctx, map[string]interface{}{}))
	assert.Equal(t, "explicit", s.location(ctx, map[string]interface{}{"location_id": "explicit"}))

	// Configured default last.
	assert.Equal(t, "default-loc", s.location(context.Background(), nil))
}

func TestHandleGetContact(t *testing.T) {
	s, _ := newTestServer(t, `{"contact":{"id":"c1","locationId":"loc-1","firstName":"Ada"}}`)

	result, err := s.handleGetContact(context.Background(), callReq("get_contact", map[string]interface{}{
		"contact_id": "c1",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := result.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"firstName": "Ada"`)
}

func TestHandleGetContactMissingArgument(t *testing.T) {
	s, _ := newTestServer(t, `{}`)

	result, err := s.handleGetContact(context.Background(), callReq("get_contact", map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandlerReportsAPIFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(api.Close)

	tokens := ghl.TokenProviderFunc(func(ctx context.Context, locationID string) (string, error) {
		return "test-token", nil
	})
	client := ghl.NewClient(tokens, ghl.WithBaseURL(api.URL), ghl.WithHTTPClient(api.Client()))
	s := NewServer(client, "default-loc", nil)

	result, err := s.handleGetPipelines(context.Background(), callReq("get_pipelines", nil))
	require.NoError(t, err, "API failures surface as tool errors, not protocol errors")
	assert.True(t, result.IsError)
}

func TestArgumentHelpers(t *testing.T) {
	args := map[string]interface{}{
		"name":  "Ada",
		"limit": float64(25),
		"tags":  []interface{}{"vip", "lead", 7},
		"flag":  true,
	}

	assert.Equal(t, "Ada", argString(args, "name"))
	assert.Equal(t, "", argString(args, "missing"))
	assert.Equal(t, 25, argInt(args, "limit", 10))
	assert.Equal(t, 10, argInt(args, "missing", 10))
	assert.Equal(t, []string{"vip", "lead"}, argStrings(args, "tags"))
	assert.Nil(t, argStrings(args, "missing"))
	assert.True(t, argBool(args, "flag"))
}

func TestArgTime(t *testing.T) {
	full, err := argTime(map[string]interface{}{"at": "2026-09-01T10:30:00Z"}, "at")
	require.NoError(t, err)
	assert.Equal(t, 10, full.UTC().Hour())

	day, err := argTime(map[string]interface{}{"at": "2026-09-01"}, "at")
	require.NoError(t, err)
	assert.True(t, day.Equal(day.Truncate(24*time.Hour)))

	_, err = argTime(map[string]interface{}{"at": "next tuesday"}, "at")
	require.Error(t, err)

	zero, err := argTime(map[string]interface{}{}, "at")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestReadContactsResource(t *testing.T) {
	s, _ := newTestServer(t, `{"contacts":[{"id":"c1","locationId":"loc-5"}]}`)

	handler := s.readResource("contacts", func(ctx context.Context, locationID string) (interface{}, error) {
		require.Equal(t, "loc-5", locationID)
		return s.client.SearchContacts(ctx, locationID, ghl.ContactSearchOptions{Limit: 100})
	})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "ghl://contacts/loc-5"

	contents, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "ghl://contacts/loc-5", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Contains(t, text.Text, `"id": "c1"`)
}

func TestLocationFromURI(t *testing.T) {
	assert.Equal(t, "loc-1", locationFromURI("ghl://contacts/loc-1", "contacts"))
	assert.Equal(t, "", locationFromURI("ghl://contacts/", "contacts"))
	assert.Equal(t, "", locationFromURI("ghl://pipelines/loc-1", "contacts"))
}
