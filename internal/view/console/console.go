// Package console renders the staff workflows to a terminal. It is the
// user-facing surface of the agent; all strings written here are localized,
// while internal errors and logs stay in English.
package console

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/example/hotel-staff-agent/internal/api"
	"github.com/example/hotel-staff-agent/internal/breakfast"
	"github.com/example/hotel-staff-agent/internal/report"
	"github.com/example/hotel-staff-agent/internal/view"
)

// Console renders workflow output and the work indicator to one writer.
// It implements report.View, breakfast.View, photo.CountObserver, and
// view.WorkIndicator.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	tokens  atomic.Uint64
	working atomic.Int64
}

// New constructs a console renderer writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// ShowValidationError renders an inline validation message for a rejected
// report draft.
func (c *Console) ShowValidationError(err error) {
	c.printf("! %s", localizeValidation(err))
}

// ShowSubmitSuccess confirms a submitted report.
func (c *Console) ShowSubmitSuccess() {
	c.printf("Hlášení bylo odesláno.")
}

// ShowSubmitFailure renders a retry-worthy submission failure.
func (c *Console) ShowSubmitFailure(error) {
	c.printf("! Odeslání se nezdařilo. Zkuste to prosím znovu.")
}

// ClearDescription resets the description input after a successful submit.
func (c *Console) ClearDescription() {
	c.printf("Popis byl vymazán.")
}

// RenderOpenItems replaces the open-items list.
func (c *Console) RenderOpenItems(items []api.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(items) == 0 {
		fmt.Fprintln(c.out, "Žádná otevřená hlášení.")
		return
	}
	fmt.Fprintf(c.out, "Otevřená hlášení (%d):\n", len(items))
	for _, item := range items {
		line := fmt.Sprintf("  #%d pokoj %d", item.ID, item.Room)
		if item.Description != "" {
			line += " " + item.Description
		}
		if n := len(item.ThumbnailURLs); n > 0 {
			line += fmt.Sprintf(" [%d foto]", n)
		}
		fmt.Fprintln(c.out, line)
	}
}

// ShowOpenItemsFailure renders a list refresh failure without touching the
// rendered list.
func (c *Console) ShowOpenItemsFailure(error) {
	c.printf("! Seznam hlášení se nepodařilo načíst.")
}

// RenderDay replaces the breakfast view with one date's attendees.
func (c *Console) RenderDay(day breakfast.DayView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "Snídaně %s\n", day.Date)
	if day.Status == breakfast.DayMissing {
		fmt.Fprintln(c.out, "  Pro tento den nejsou žádná data.")
		fmt.Fprintln(c.out, "  Celkem: —")
		return
	}
	for _, entry := range day.Entries {
		mark := " "
		if entry.Checked() {
			mark = "x"
		}
		name := entry.Name
		if name == "" {
			name = "(bez jména)"
		}
		fmt.Fprintf(c.out, "  [%s] pokoj %d %s (%d)\n", mark, entry.Room, name, entry.Count)
	}
	fmt.Fprintf(c.out, "  Celkem: %d\n", day.Total)
}

// ShowLoadFailure renders a fetch failure for a date, distinct from a date
// the server has no data for.
func (c *Console) ShowLoadFailure(date breakfast.Date) {
	c.printf("! Data pro %s se nepodařilo načíst.", date)
}

// ShowCheckInFailure renders a failed breakfast check-in.
func (c *Console) ShowCheckInFailure(error) {
	c.printf("! Zápis snídaně se nezdařil.")
}

// PhotoCountChanged renders the staging queue readout after every change.
func (c *Console) PhotoCountChanged(current, capacity int) {
	c.printf("Fotografie: %d/%d", current, capacity)
}

// BeginWork notes one started unit of work.
func (c *Console) BeginWork(opts view.WorkOptions) view.WorkToken {
	if c.working.Add(1) == 1 && opts.Blocking {
		c.printf("Pracuji…")
	}
	return view.WorkToken(c.tokens.Add(1))
}

// EndWork notes one finished unit of work.
func (c *Console) EndWork(view.WorkToken) {
	c.working.Add(-1)
}

// ReportError surfaces an error through the indicator surface.
func (c *Console) ReportError(opts view.ErrorOptions) {
	if opts.Retryable {
		c.printf("! %s Zkuste to prosím znovu.", opts.Message)
		return
	}
	c.printf("! %s", opts.Message)
}

func localizeValidation(err error) string {
	switch {
	case errors.Is(err, report.ErrDeviceNotActive):
		return "Zařízení není aktivní."
	case errors.Is(err, report.ErrNoRoomSelected):
		return "Vyberte pokoj."
	case errors.Is(err, report.ErrRoomNotAllowed):
		return "Neplatné číslo pokoje."
	case errors.Is(err, report.ErrDescriptionTooLong):
		return "Popis je příliš dlouhý."
	default:
		return "Hlášení se nepodařilo ověřit."
	}
}
