// Package report drives photo-backed report submission and the open-items
// list for the housekeeping, maintenance, and frontdesk roles.
package report

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/hotel-staff-agent/internal/activation"
	"github.com/example/hotel-staff-agent/internal/api"
	"github.com/example/hotel-staff-agent/internal/logging"
	"github.com/example/hotel-staff-agent/internal/photo"
	"github.com/example/hotel-staff-agent/internal/rooms"
)

// MaxDescriptionLen caps the trimmed description at 50 characters.
const MaxDescriptionLen = 50

// API captures the remote calls the workflow performs.
type API interface {
	SubmitReport(ctx context.Context, submission api.ReportSubmission) error
	OpenReports(ctx context.Context, category api.ReportCategory) ([]api.Report, error)
	MarkReportDone(ctx context.Context, reportID int64) error
}

// View is the constructor-injected handle to whatever renders this workflow.
type View interface {
	ShowValidationError(err error)
	ShowSubmitSuccess()
	ShowSubmitFailure(err error)
	ClearDescription()
	RenderOpenItems(items []api.Report)
	ShowOpenItemsFailure(err error)
}

// Draft is a report being composed. Photos come from the staging queue.
type Draft struct {
	Room        int
	Description string
}

// Workflow is the report submission state machine.
type Workflow struct {
	api      API
	photos   *photo.Queue
	status   func() activation.Status
	view     View
	category api.ReportCategory
	now      func() time.Time
	logger   *slog.Logger

	phase phaseCell
}

// NewWorkflow constructs a report workflow for the given category.
func NewWorkflow(remote API, photos *photo.Queue, status func() activation.Status, v View, category api.ReportCategory, now func() time.Time, logger *slog.Logger) *Workflow {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		api:      remote,
		photos:   photos,
		status:   status,
		view:     v,
		category: category,
		now:      now,
		logger:   logger,
	}
}

// Phase returns the current submission phase.
func (w *Workflow) Phase() Phase {
	return w.phase.get()
}

// Submit validates the draft locally and, on success, posts it with the
// currently staged photos. Validation failures surface inline and make no
// network call. On success the photo queue and description are cleared; on
// transport failure a generic retry-worthy error is shown and nothing is
// retried automatically.
func (w *Workflow) Submit(ctx context.Context, draft Draft) (err error) {
	logger := logging.Default(ctx, w.logger).With(
		"service", "ReportWorkflow",
		"operation", "Submit",
		"room", draft.Room,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "submission rejected", "error", err, "phase", w.phase.get().String())
			return
		}
		logger.InfoContext(ctx, "report submitted")
	}()

	if err = w.validate(draft); err != nil {
		w.view.ShowValidationError(err)
		return err
	}

	w.phase.set(logger, PhaseSubmitting)

	submission := api.ReportSubmission{
		Category:    w.category,
		Room:        draft.Room,
		Description: strings.TrimSpace(draft.Description),
		CreatedAt:   w.now(),
	}
	for _, item := range w.photos.Items() {
		blob := item.Blob()
		submission.Photos = append(submission.Photos, api.PhotoPart{
			Name: blob.Name,
			MIME: blob.MIME,
			Data: blob.Data,
		})
	}

	if err = w.api.SubmitReport(ctx, submission); err != nil {
		w.phase.set(logger, PhaseFailed)
		w.view.ShowSubmitFailure(ErrSubmitFailed)
		return err
	}

	w.phase.set(logger, PhaseSucceeded)
	w.photos.Clear(ctx)
	w.view.ClearDescription()
	w.view.ShowSubmitSuccess()
	return nil
}

// RefreshOpenItems re-fetches the open-items list for the workflow's
// category and replaces the rendered list with whatever resolves last. There
// is deliberately no sequencing guard between a background poll and a manual
// refresh; see the race note in DESIGN.md.
func (w *Workflow) RefreshOpenItems(ctx context.Context) error {
	if !w.status().IsActive() {
		return ErrDeviceNotActive
	}

	logger := logging.Default(ctx, w.logger).With("service", "ReportWorkflow", "operation", "RefreshOpenItems")

	items, err := w.api.OpenReports(ctx, w.category)
	if err != nil {
		logger.ErrorContext(ctx, "failed to refresh open items", "error", err)
		w.view.ShowOpenItemsFailure(err)
		return err
	}

	w.view.RenderOpenItems(items)
	return nil
}

// MarkDone marks one report terminal and then re-fetches the list. There is
// no optimistic local update: the list shows stale state until the refresh
// resolves.
func (w *Workflow) MarkDone(ctx context.Context, reportID int64) error {
	if !w.status().IsActive() {
		return ErrDeviceNotActive
	}

	logger := logging.Default(ctx, w.logger).With(
		"service", "ReportWorkflow",
		"operation", "MarkDone",
		"report_id", reportID,
	)

	if err := w.api.MarkReportDone(ctx, reportID); err != nil {
		logger.ErrorContext(ctx, "failed to mark report done", "error", err)
		w.view.ShowOpenItemsFailure(err)
		return err
	}

	logger.InfoContext(ctx, "report marked done")
	return w.RefreshOpenItems(ctx)
}

func (w *Workflow) validate(draft Draft) error {
	if !w.status().IsActive() {
		return ErrDeviceNotActive
	}
	if draft.Room == 0 {
		return ErrNoRoomSelected
	}
	if !rooms.IsAllowed(draft.Room) {
		return ErrRoomNotAllowed
	}
	if utf8.RuneCountInString(strings.TrimSpace(draft.Description)) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}
