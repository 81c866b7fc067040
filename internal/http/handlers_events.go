package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clube/internal/core"
	"clube/internal/services"
)

type eventPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Cost        string `json:"cost"`
}

type eventJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at,omitempty"`
	Location    string `json:"location,omitempty"`
	Type        string `json:"type,omitempty"`
	CostCents   int64  `json:"cost_cents"`
	Cost        string `json:"cost"`
}

func toEventJSON(e core.Event) eventJSON {
	out := eventJSON{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartsAt:    e.StartsAt.Format("2006-01-02 15:04"),
		Location:    e.Location,
		Type:        e.Type,
		CostCents:   e.Cost.Cents,
		Cost:        formatReais(e.Cost.Cents),
	}
	if e.EndsAt != nil {
		out.EndsAt = e.EndsAt.Format("2006-01-02 15:04")
	}
	return out
}

func toEventListJSON(events []core.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, toEventJSON(e))
	}
	return out
}

func (s *Server) handleScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := s.events.Schedule(r.Context(), services.EventDraft{
		Name:        sanitizeInput(payload.Name),
		Description: sanitizeInput(payload.Description),
		StartsAt:    sanitizeInput(payload.StartsAt),
		EndsAt:      sanitizeInput(payload.EndsAt),
		Location:    sanitizeInput(payload.Location),
		Type:        sanitizeInput(payload.Type),
		Cost:        sanitizeInput(payload.Cost),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventJSON(event))
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	events, err := s.events.Upcoming(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": toEventListJSON(events)})
}

// handleCalendar renders the month view: a Monday-first week grid plus the
// month's events bucketed by day.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month, year := parseYearMonth(r)

	cal, err := s.events.Calendar(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	byDay := make(map[string][]eventJSON, len(cal.ByDay))
	for day, events := range cal.ByDay {
		byDay[strconv.Itoa(day)] = toEventListJSON(events)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":      cal.Month,
		"year":       cal.Year,
		"month_name": time.Month(cal.Month).String(),
		"weeks":      cal.Weeks,
		"events":     byDay,
		"prev_month": cal.PrevMonth,
		"prev_year":  cal.PrevYear,
		"next_month": cal.NextMonth,
		"next_year":  cal.NextYear,
	})
}
