package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clube/internal/core"
)

// EventDraft carries the fields accepted when scheduling an event. Dates are
// "2006-01-02 15:04" local wall time; EndsAt may be empty.
type EventDraft struct {
	Name        string
	Description string
	StartsAt    string
	EndsAt      string
	Location    string
	Type        string
	Cost        string
}

// CalendarMonth is one month's calendar view: a Monday-first week grid with
// zero-padded out-of-month cells, the month's events bucketed by day, and
// the adjacent periods for navigation.
type CalendarMonth struct {
	Month     int
	Year      int
	Weeks     [][7]int
	ByDay     map[int][]core.Event
	PrevMonth int
	PrevYear  int
	NextMonth int
	NextYear  int
}

// Events schedules club activities and renders the calendar.
type Events struct {
	store EventStore
	now   func() time.Time
}

func NewEvents(store EventStore) *Events {
	return &Events{store: store, now: time.Now}
}

const eventTimeLayout = "2006-01-02 15:04"

// Schedule validates a draft and stores the event.
func (s *Events) Schedule(ctx context.Context, draft EventDraft) (core.Event, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return core.Event{}, core.ErrEmptyName
	}

	starts, err := time.Parse(eventTimeLayout, strings.TrimSpace(draft.StartsAt))
	if err != nil {
		return core.Event{}, core.ErrInvalidDate
	}

	var ends *time.Time
	if raw := strings.TrimSpace(draft.EndsAt); raw != "" {
		e, err := time.Parse(eventTimeLayout, raw)
		if err != nil {
			return core.Event{}, core.ErrInvalidDate
		}
		if e.Before(starts) {
			return core.Event{}, core.ErrInvalidDate
		}
		ends = &e
	}

	cost := core.Money{}
	if raw := strings.TrimSpace(draft.Cost); raw != "" {
		cents, err := core.ParseCents(raw)
		if err != nil {
			return core.Event{}, err
		}
		cost = core.Money{Cents: cents}
	}

	event := core.Event{
		Name:        name,
		Description: strings.TrimSpace(draft.Description),
		StartsAt:    starts,
		EndsAt:      ends,
		Location:    strings.TrimSpace(draft.Location),
		Type:        strings.TrimSpace(draft.Type),
		Cost:        cost,
		Active:      true,
	}

	created, err := s.store.CreateEvent(ctx, event)
	if err != nil {
		return core.Event{}, fmt.Errorf("schedule event: %w", err)
	}

	slog.InfoContext(ctx, "Event scheduled",
		"event_id", created.ID, "event_name", created.Name)

	return created, nil
}

// Upcoming lists the next events from now on.
func (s *Events) Upcoming(ctx context.Context, limit int) ([]core.Event, error) {
	events, err := s.store.UpcomingEvents(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	return events, nil
}

// Calendar builds the month view. Defaulting to the current period is the
// caller's job; month and year must already be a valid period here.
func (s *Events) Calendar(ctx context.Context, month, year int) (CalendarMonth, error) {
	if err := core.ValidatePeriod(month, year); err != nil {
		return CalendarMonth{}, err
	}

	events, err := s.store.ListEventsForMonth(ctx, month, year)
	if err != nil {
		return CalendarMonth{}, fmt.Errorf("calendar %d/%d: %w", month, year, err)
	}

	cal := CalendarMonth{
		Month: month,
		Year:  year,
		Weeks: monthGrid(month, year),
		ByDay: make(map[int][]core.Event),
	}
	for _, e := range events {
		day := e.StartsAt.Day()
		cal.ByDay[day] = append(cal.ByDay[day], e)
	}

	cal.PrevMonth, cal.PrevYear = month-1, year
	if cal.PrevMonth == 0 {
		cal.PrevMonth, cal.PrevYear = 12, year-1
	}
	cal.NextMonth, cal.NextYear = month+1, year
	if cal.NextMonth == 13 {
		cal.NextMonth, cal.NextYear = 1, year+1
	}
	return cal, nil
}

// monthGrid lays the month's days out in Monday-first weeks. Cells outside
// the month are zero.
func monthGrid(month, year int) [][7]int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// time.Weekday is Sunday-based; shift so Monday is column 0.
	col := (int(first.Weekday()) + 6) % 7

	var weeks [][7]int
	week := [7]int{}
	for day := 1; day <= daysInMonth; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col != 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
