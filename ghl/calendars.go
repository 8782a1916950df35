package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Calendar is a bookable calendar in a location.
type Calendar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LocationID  string `json:"locationId,omitempty"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
	IsActive    bool   `json:"isActive,omitempty"`
}

// Appointment is a booked calendar event.
type Appointment struct {
	ID                string `json:"id,omitempty"`
	CalendarID        string `json:"calendarId,omitempty"`
	LocationID        string `json:"locationId,omitempty"`
	ContactID         string `json:"contactId,omitempty"`
	Title             string `json:"title,omitempty"`
	Status            string `json:"status,omitempty"`
	AppointmentStatus string `json:"appointmentStatus,omitempty"`
	AssignedUserID    string `json:"assignedUserId,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
	Address           string `json:"address,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// AppointmentCreate is the payload for booking an appointment.
type AppointmentCreate struct {
	LocationID        string    `json:"locationId"`
	CalendarID        string    `json:"calendarId"`
	ContactID         string    `json:"contactId"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Title             string    `json:"title,omitempty"`
	AppointmentStatus string    `json:"appointmentStatus,omitempty"`
	AssignedUserID    string    `json:"assignedUserId,omitempty"`
	Address           string    `json:"address,omitempty"`
	Notes             string    `json:"notes,omitempty"`
}

// AppointmentUpdate is the payload for rescheduling or editing an
// appointment.
type AppointmentUpdate struct {
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	Title             string     `json:"title,omitempty"`
	AppointmentStatus string     `json:"appointmentStatus,omitempty"`
	AssignedUserID    string     `json:"assignedUserId,omitempty"`
	Address           string     `json:"address,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

// AppointmentList is a page of appointments.
type AppointmentList struct {
	Appointments []Appointment `json:"events"`
	Count        int           `json:"count"`
	Total        int           `json:"total,omitempty"`
}

// AppointmentSearchOptions filter GetAppointments.
type AppointmentSearchOptions struct {
	StartTime time.Time
	EndTime   time.Time
	UserID    string
	Limit     int
	Skip      int
}

// DaySlots are the free slots available on one day.
type DaySlots struct {
	Slots []string `json:"slots"`
}

// GetCalendars returns all calendars for a location.
func (c *Client) GetCalendars(ctx context.Context, locationID string) ([]Calendar, error) {
	query := url.Values{}
	query.Set("locationId", locationID)

	raw, err := c.request(ctx, http.MethodGet, "/calendars/", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var calendars []Calendar
	if err := unwrap(raw, "calendars", &calendars); err != nil {
		return nil, err
	}
	return calendars, nil
}

// GetCalendar returns a single calendar by ID.
func (c *Client) GetCalendar(ctx context.Context, calendarID, locationID string) (*Calendar, error) {
	raw, err := c.request(ctx, http.MethodGet, "/calendars/"+calendarID, nil, nil, locationID)
	if err != nil {
		return nil, err
	}
	var calendar Calendar
	if err := unwrap(raw, "calendar", &calendar); err != nil {
		return nil, err
	}
	return &calendar, nil
}

// GetFreeSlots returns open booking slots for a calendar keyed by date.
func (c *Client) GetFreeSlots(ctx context.Context, calendarID string, start, end time.Time, timezone, locationID string) (map[string]DaySlots, error) {
	query := url.Values{}
	query.Set("startDate", strconv.FormatInt(start.UnixMilli(), 10))
	query.Set("endDate", strconv.FormatInt(end.UnixMilli(), 10))
	if timezone != "" {
		query.Set("timezone", timezone)
	}

	raw, err := c.request(ctx, http.MethodGet, "/calendars/"+calendarID+"/free-slots", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	// The API shapes this as {"2024-06-01": {"slots": [...]}, ...} with a
	// traceId field mixed in, which must not decode as a date.
	slots := make(map[string]DaySlots)
	var payload map[string]DaySlots
	if err := unwrap(raw, "", &payload); err != nil {
		return nil, err
	}
	for date, day := range payload {
		if date == "traceId" {
			continue
		}
		slots[date] = day
	}
	return slots, nil
}

// GetAppointments returns booked events for a calendar.
func (c *Client) GetAppointments(ctx context.Context, calendarID, locationID string, opts AppointmentSearchOptions) (*AppointmentList, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := url.Values{}
	query.Set("locationId", locationID)
	query.Set("calendarId", calendarID)
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Skip > 0 {
		query.Set("skip", strconv.Itoa(opts.Skip))
	}
	if !opts.StartTime.IsZero() {
		query.Set("startTime", opts.StartTime.Format(time.RFC3339))
	}
	if !opts.EndTime.IsZero() {
		query.Set("endTime", opts.EndTime.Format(time.RFC3339))
	}
	if opts.UserID != "" {
		query.Set("userId", opts.UserID)
	}

	raw, err := c.request(ctx, http.MethodGet, "/calendars/events", query, nil, locationID)
	if err != nil {
		return nil, err
	}

	var list AppointmentList
	if err := unwrap(raw, "", &list); err != nil {
		return nil, err
	}
	list.Count = len(list.Appointments)
	return &list, nil
}

// GetAppointment returns a single appointment by ID.
func (c *Client) GetAppointment(ctx context.Context, appointmentID, locationID string) (*Appointment, error) {
	raw, err := c.request(ctx, http.MethodGet, "/calendars/events/appointments/"+appointmentID, nil, nil, locationID)
	if err != nil {
		return nil, err
	}
	var appointment Appointment
	if err := unwrap(raw, "appointment", &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, create AppointmentCreate) (*Appointment, error) {
	raw, err := c.request(ctx, http.MethodPost, "/calendars/events/appointments", nil, create, create.LocationID)
	if err != nil {
		return nil, err
	}
	var appointment Appointment
	if err := unwrap(raw, "appointment", &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// UpdateAppointment edits an existing appointment.
func (c *Client) UpdateAppointment(ctx context.Context, appointmentID string, updates AppointmentUpdate, locationID string) (*Appointment, error) {
	raw, err := c.request(ctx, http.MethodPut, "/calendars/events/appointments/"+appointmentID, nil, updates, locationID)
	if err != nil {
		return nil, err
	}
	var appointment Appointment
	if err := unwrap(raw, "appointment", &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// DeleteAppointment cancels an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, appointmentID, locationID string) error {
	_, err := c.request(ctx, http.MethodDelete, "/calendars/events/"+appointmentID, nil, nil, locationID)
	return err
}
