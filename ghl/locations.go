package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Location is a GoHighLevel sub-account.
type Location struct {
	ID         string `json:"id"`
	CompanyID  string `json:"companyId,omitempty"`
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Website    string `json:"website,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// LocationList is a page of locations.
type LocationList struct {
	Locations []Location `json:"locations"`
	Count     int        `json:"count"`
}

// SearchLocations returns locations visible to the agency token.
func (c *Client) SearchLocations(ctx context.Context, limit, skip int) (*LocationList, error) {
	if limit <= 0 {
		limit = 100
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}

	raw, err := c.request(ctx, http.MethodGet, "/locations/search", query, nil, "")
	if err != nil {
		return nil, err
	}

	var list LocationList
	if err := unwrap(raw, "", &list); err != nil {
		return nil, err
	}
	list.Count = len(list.Locations)
	return &list, nil
}

// GetLocation returns a single location by ID.
func (c *Client) GetLocation(ctx context.Context, locationID string) (*Location, error) {
	raw, err := c.request(ctx, http.MethodGet, "/locations/"+locationID, nil, nil, "")
	if err != nil {
		return nil, err
	}
	var location Location
	if err := unwrap(raw, "location", &location); err != nil {
		return nil, err
	}
	return &location, nil
}
