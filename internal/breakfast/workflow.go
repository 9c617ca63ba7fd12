// Package breakfast drives the date-scoped breakfast attendance view.
package breakfast

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/example/hotel-staff-agent/internal/activation"
	"github.com/example/hotel-staff-agent/internal/api"
	"github.com/example/hotel-staff-agent/internal/logging"
)

// ErrDeviceNotActive rejects data access before the device is activated.
var ErrDeviceNotActive = errors.New("device not active")

// DayStatus describes a whole date: FOUND when attendee data exists, MISSING
// when the server has no record for the date yet.
type DayStatus int

const (
	DayMissing DayStatus = iota
	DayFound
)

// String returns the wire representation.
func (s DayStatus) String() string {
	if s == DayFound {
		return "FOUND"
	}
	return "MISSING"
}

// Entry is one expected attendee row, normalized for rendering. A checked
// entry is terminal for its date; no un-check exists.
type Entry struct {
	Room      int
	Name      string
	Count     int
	CheckedAt *time.Time
	CheckedBy string
}

// Checked reports whether the entry has been checked in.
func (e Entry) Checked() bool {
	return e.CheckedAt != nil || e.CheckedBy != ""
}

// DayView is the rendered projection of one date. TotalKnown is false when
// the date has no data at all; the total then renders as unavailable rather
// than zero.
type DayView struct {
	Date       Date
	Status     DayStatus
	Entries    []Entry
	Total      int
	TotalKnown bool
}

// API captures the remote calls the workflow performs.
type API interface {
	BreakfastDay(ctx context.Context, date string) (api.BreakfastDayResponse, error)
	BreakfastCheckIn(ctx context.Context, date string, room int) error
}

// View is the constructor-injected handle to whatever renders this workflow.
// ShowLoadFailure is distinct from rendering a MISSING day: the former means
// the data could not be fetched, the latter that the server has none.
type View interface {
	RenderDay(day DayView)
	ShowLoadFailure(date Date)
	ShowCheckInFailure(err error)
}

// Workflow is the date-scoped breakfast projection.
type Workflow struct {
	api    API
	status func() activation.Status
	view   View
	logger *slog.Logger

	current Date
}

// NewWorkflow constructs a breakfast workflow.
func NewWorkflow(remote API, status func() activation.Status, v View, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{api: remote, status: status, view: v, logger: logger}
}

// CurrentDate returns the date the rendered view is scoped to.
func (w *Workflow) CurrentDate() Date {
	return w.current
}

// LoadDay fetches and renders the attendee list for the date. A failed load
// shows the load-error empty state and leaves the previously rendered day
// untouched.
func (w *Workflow) LoadDay(ctx context.Context, date Date) error {
	if !w.status().IsActive() {
		return ErrDeviceNotActive
	}

	logger := logging.Default(ctx, w.logger).With(
		"service", "BreakfastWorkflow",
		"operation", "LoadDay",
		"date", date.String(),
	)

	resp, err := w.api.BreakfastDay(ctx, date.String())
	if err != nil {
		logger.ErrorContext(ctx, "failed to load day", "error", err)
		w.view.ShowLoadFailure(date)
		return err
	}

	day := projectDay(date, resp)
	w.current = date
	w.view.RenderDay(day)
	logger.DebugContext(ctx, "day loaded", "status", day.Status.String(), "entries", len(day.Entries))
	return nil
}

// Navigate moves delta calendar days from the current date and reloads.
func (w *Workflow) Navigate(ctx context.Context, delta int) error {
	return w.LoadDay(ctx, w.current.AddDays(delta))
}

// Refresh reloads the currently displayed date. Used by the poll driver.
func (w *Workflow) Refresh(ctx context.Context) error {
	if w.current.IsZero() {
		return nil
	}
	return w.LoadDay(ctx, w.current)
}

// CheckIn records attendance for a room on the current date and reloads the
// day. A failed check-in surfaces an error without touching any rendered row.
func (w *Workflow) CheckIn(ctx context.Context, room int) error {
	if !w.status().IsActive() {
		return ErrDeviceNotActive
	}

	logger := logging.Default(ctx, w.logger).With(
		"service", "BreakfastWorkflow",
		"operation", "CheckIn",
		"date", w.current.String(),
		"room", room,
	)

	if err := w.api.BreakfastCheckIn(ctx, w.current.String(), room); err != nil {
		logger.ErrorContext(ctx, "check-in failed", "error", err)
		w.view.ShowCheckInFailure(err)
		return err
	}

	logger.InfoContext(ctx, "checked in")
	return w.LoadDay(ctx, w.current)
}

// projectDay normalizes the wire response into the rendered view: names
// resolve to the first non-empty of the three historical fields, rooms sort
// ascending, and the day's status and total are derived.
func projectDay(date Date, resp api.BreakfastDayResponse) DayView {
	entries := make([]Entry, 0, len(resp.Items))
	total := 0
	for _, item := range resp.Items {
		entry := Entry{
			Room:      item.Room,
			Name:      firstNonEmpty(item.Name, item.GuestName, item.GuestNameAlt),
			Count:     item.Count,
			CheckedAt: item.CheckedAt,
			CheckedBy: item.CheckedBy,
		}
		entries = append(entries, entry)
		total += entry.Count
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Room < entries[j].Room })

	status := DayMissing
	switch {
	case len(entries) > 0:
		status = DayFound
	case resp.Status == "FOUND":
		status = DayFound
	}

	return DayView{
		Date:       date,
		Status:     status,
		Entries:    entries,
		Total:      total,
		TotalKnown: status == DayFound,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
