package ghl

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchContacts(t *testing.T) {
	client, cap := newTestClient(t, `{"contacts":[{"id":"c1","locationId":"loc-1"},{"id":"c2","locationId":"loc-1"}],"total":2}`)

	list, err := client.SearchContacts(context.Background(), "loc-1", ContactSearchOptions{
		Query: "smith",
		Email: "a@b.com",
		Tags:  []string{"vip", "lead"},
		Limit: 10,
		Skip:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, cap.Method)
	assert.Equal(t, "/contacts/", cap.Path)
	assert.Equal(t, "loc-1", cap.Query.Get("locationId"))
	assert.Equal(t, "smith", cap.Query.Get("query"))
	assert.Equal(t, "a@b.com", cap.Query.Get("email"))
	assert.Equal(t, "vip,lead", cap.Query.Get("tags"))
	assert.Equal(t, "10", cap.Query.Get("limit"))
	assert.Equal(t, "5", cap.Query.Get("skip"))

	assert.Len(t, list.Contacts, 2)
	assert.Equal(t, 2, list.Count)
}

func TestSearchContactsDefaultLimit(t *testing.T) {
	client, cap := newTestClient(t, `{"contacts":[]}`)

	_, err := client.SearchContacts(context.Background(), "loc-1", ContactSearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "100", cap.Query.Get("limit"))
}

func TestCreateContact(t *testing.T) {
	client, cap := newTestClient(t, `{"contact":{"id":"new-1","locationId":"loc-1","firstName":"Ada"}}`)

	contact, err := client.CreateContact(context.Background(), ContactCreate{
		LocationID: "loc-1",
		FirstName:  "Ada",
		Email:      "ada@example.com",
		Tags:       []string{"lead"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, cap.Method)
	assert.Equal(t, "/contacts/", cap.Path)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(cap.Body, &sent))
	assert.Equal(t, "loc-1", sent["locationId"])
	assert.Equal(t, "Ada", sent["firstName"])
	assert.Equal(t, "ada@example.com", sent["email"])

	assert.Equal(t, "new-1", contact.ID)
	assert.Equal(t, "Ada", contact.FirstName)
}

func TestUpdateContactOmitsZeroFields(t *testing.T) {
	client, cap := newTestClient(t, `{"contact":{"id":"c1","locationId":"loc-1"}}`)

	_, err := client.UpdateContact(context.Background(), "c1", ContactUpdate{FirstName: "Grace"}, "loc-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, cap.Method)
	assert.Equal(t, "/contacts/c1", cap.Path)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(cap.Body, &sent))
	assert.Equal(t, map[string]interface{}{"firstName": "Grace"}, sent)
}

func TestDeleteContact(t *testing.T) {
	client, cap := newTestClient(t, `{"succeeded":true}`)

	require.NoError(t, client.DeleteContact(context.Background(), "c1", "loc-1"))
	assert.Equal(t, http.MethodDelete, cap.Method)
	assert.Equal(t, "/contacts/c1", cap.Path)
}

func TestContactTags(t *testing.T) {
	client, cap := newTestClient(t, `{"contact":{"id":"c1","locationId":"loc-1","tags":["vip"]}}`)

	contact, err := client.AddContactTags(context.Background(), "c1", []string{"vip"}, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, cap.Method)
	assert.Equal(t, "/contacts/c1/tags", cap.Path)
	assert.JSONEq(t, `{"tags":["vip"]}`, string(cap.Body))
	assert.Equal(t, []string{"vip"}, contact.Tags)

	_, err = client.RemoveContactTags(context.Background(), "c1", []string{"vip"}, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, cap.Method)
	assert.Equal(t, "/contacts/c1/tags", cap.Path)
}
