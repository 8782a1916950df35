package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/basicmachines/highlevel-mcp/ghl"
)

func (s *Server) registerCalendarTools() {
	s.addTool(mcp.NewTool("get_calendars",
		mcp.WithDescription("List the bookable calendars in a location."),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetCalendars)

	s.addTool(mcp.NewTool("get_calendar",
		mcp.WithDescription("Get a single calendar by ID."),
		mcp.WithString("calendar_id", mcp.Description("Calendar ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetCalendar)

	s.addTool(mcp.NewTool("get_free_slots",
		mcp.WithDescription("List free booking slots on a calendar between two dates, grouped by day."),
		mcp.WithString("calendar_id", mcp.Description("Calendar ID"), mcp.Required()),
		mcp.WithString("start_date", mcp.Description("Range start, RFC 3339 (e.g. 2026-09-01T00:00:00Z)"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Range end, RFC 3339"), mcp.Required()),
		mcp.WithString("timezone", mcp.Description("IANA timezone for the returned slots (e.g. America/Chicago)")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetFreeSlots)

	s.addTool(mcp.NewTool("get_appointments",
		mcp.WithDescription("List appointments on a calendar within a time range."),
		mcp.WithString("calendar_id", mcp.Description("Calendar ID"), mcp.Required()),
		mcp.WithString("start_time", mcp.Description("Range start, RFC 3339"), mcp.Required()),
		mcp.WithString("end_time", mcp.Description("Range end, RFC 3339"), mcp.Required()),
		mcp.WithString("user_id", mcp.Description("Only appointments assigned to this user")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetAppointments)

	s.addTool(mcp.NewTool("get_appointment",
		mcp.WithDescription("Get a single appointment by ID."),
		mcp.WithString("appointment_id", mcp.Description("Appointment ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleGetAppointment)

	s.addTool(mcp.NewTool("create_appointment",
		mcp.WithDescription("Book an appointment on a calendar for a contact."),
		mcp.WithString("calendar_id", mcp.Description("Calendar ID"), mcp.Required()),
		mcp.WithString("contact_id", mcp.Description("Contact ID"), mcp.Required()),
		mcp.WithString("start_time", mcp.Description("Start, RFC 3339"), mcp.Required()),
		mcp.WithString("end_time", mcp.Description("End, RFC 3339"), mcp.Required()),
		mcp.WithString("title", mcp.Description("Appointment title")),
		mcp.WithString("appointment_status", mcp.Description("Status: new, confirmed, cancelled, showed, noshow (default confirmed)")),
		mcp.WithString("assigned_user_id", mcp.Description("User to assign")),
		mcp.WithString("address", mcp.Description("Meeting address or link")),
		mcp.WithString("notes", mcp.Description("Internal notes")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleCreateAppointment)

	s.addTool(mcp.NewTool("update_appointment",
		mcp.WithDescription("Reschedule or edit an appointment. Omitted fields are left unchanged."),
		mcp.WithString("appointment_id", mcp.Description("Appointment ID"), mcp.Required()),
		mcp.WithString("start_time", mcp.Description("New start, RFC 3339")),
		mcp.WithString("end_time", mcp.Description("New end, RFC 3339")),
		mcp.WithString("title", mcp.Description("Appointment title")),
		mcp.WithString("appointment_status", mcp.Description("Status: new, confirmed, cancelled, showed, noshow")),
		mcp.WithString("assigned_user_id", mcp.Description("User to assign")),
		mcp.WithString("address", mcp.Description("Meeting address or link")),
		mcp.WithString("notes", mcp.Description("Internal notes")),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleUpdateAppointment)

	s.addTool(mcp.NewTool("delete_appointment",
		mcp.WithDescription("Cancel and delete an appointment."),
		mcp.WithString("appointment_id", mcp.Description("Appointment ID"), mcp.Required()),
		mcp.WithString("location_id", mcp.Description("Location ID (defaults to the authenticated location)")),
	), s.handleDeleteAppointment)
}

// argTime parses an RFC 3339 timestamp argument. Bare dates are accepted
// and read as midnight UTC.
func argTime(args map[string]interface{}, key string) (time.Time, error) {
	raw := argString(args, key)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s %q: want RFC 3339 timestamp", key, raw)
}

func (s *Server) handleGetCalendars(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	calendars, err := s.client.GetCalendars(ctx, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_calendars", err)
	}
	return jsonResult(map[string]interface{}{
		"calendars": calendars,
		"count":     len(calendars),
	})
}

func (s *Server) handleGetCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	calendarID, err := req.RequireString("calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	calendar, err := s.client.GetCalendar(ctx, calendarID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_calendar", err)
	}
	return jsonResult(calendar)
}

func (s *Server) handleGetFreeSlots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	calendarID, err := req.RequireString("calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := argTime(args, "start_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := argTime(args, "end_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slots, err := s.client.GetFreeSlots(ctx, calendarID, start, end, argString(args, "timezone"), s.location(ctx, args))
	if err != nil {
		return s.toolError("get_free_slots", err)
	}
	return jsonResult(slots)
}

func (s *Server) handleGetAppointments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	calendarID, err := req.RequireString("calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := argTime(args, "start_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := argTime(args, "end_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.client.GetAppointments(ctx, calendarID, s.location(ctx, args), ghl.AppointmentSearchOptions{
		StartTime: start,
		EndTime:   end,
		UserID:    argString(args, "user_id"),
	})
	if err != nil {
		return s.toolError("get_appointments", err)
	}
	return jsonResult(list)
}

func (s *Server) handleGetAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	appointmentID, err := req.RequireString("appointment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	appointment, err := s.client.GetAppointment(ctx, appointmentID, s.location(ctx, args))
	if err != nil {
		return s.toolError("get_appointment", err)
	}
	return jsonResult(appointment)
}

func (s *Server) handleCreateAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	calendarID, err := req.RequireString("calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := argTime(args, "start_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := argTime(args, "end_time")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status := argString(args, "appointment_status")
	if status == "" {
		status = "confirmed"
	}
	appointment, err := s.client.CreateAppointment(ctx, ghl.AppointmentCreate{
		LocationID:        s.location(ctx, args),
		CalendarID:        calendarID,
		ContactID:         contactID,
		StartTime:         start,
		EndTime:           end,
		Title:             argString(args, "title"),
		AppointmentStatus: status,
		AssignedUserID:    argString(args, "assigned_user_id"),
		Address:           argString(args, "address"),
		Notes:             argString(args, "notes"),
	})
	if err != nil {
		return s.toolError("create_appointment", err)
	}
	return jsonResult(appointment)
}

func (s *Server) handleUpdateAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	appointmentID, err := req.RequireString("appointment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updates := ghl.AppointmentUpdate{
		Title:             argString(args, "title"),
		AppointmentStatus: argString(args, "appointment_status"),
		AssignedUserID:    argString(args, "assigned_user_id"),
		Address:           argString(args, "address"),
		Notes:             argString(args, "notes"),
	}
	if start, err := argTime(args, "start_time"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if !start.IsZero() {
		updates.StartTime = &start
	}
	if end, err := argTime(args, "end_time"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if !end.IsZero() {
		updates.EndTime = &end
	}

	appointment, err := s.client.UpdateAppointment(ctx, appointmentID, updates, s.location(ctx, args))
	if err != nil {
		return s.toolError("update_appointment", err)
	}
	return jsonResult(appointment)
}

func (s *Server) handleDeleteAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	appointmentID, err := req.RequireString("appointment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.client.DeleteAppointment(ctx, appointmentID, s.location(ctx, args)); err != nil {
		return s.toolError("delete_appointment", err)
	}
	return jsonResult(map[string]interface{}{"succeeded": true, "appointmentId": appointmentID})
}
