// Package poll drives the recurring refresh shared by the report and
// breakfast workflows. Exactly one scheduler runs per device, for the active
// role's workflow.
package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/hotel-staff-agent/internal/logging"
)

// DefaultInterval matches the 30-second refresh cadence of the original app.
const DefaultInterval = 30 * time.Second

// Scheduler re-invokes a workflow refresh on a fixed interval. A tick is a
// no-op unless the UI is visible and the device is active; ticks are never
// queued or retried. The caller starts the scheduler only after the first
// successful load and stops it by cancelling the context.
type Scheduler struct {
	interval time.Duration
	refresh  func(ctx context.Context) error
	visible  func() bool
	active   func() bool
	logger   *slog.Logger
}

// AlwaysVisible is the visibility source for surfaces that cannot be hidden.
func AlwaysVisible() bool { return true }

// NewScheduler constructs a scheduler. interval defaults to DefaultInterval
// when non-positive; visible defaults to AlwaysVisible.
func NewScheduler(interval time.Duration, refresh func(ctx context.Context) error, visible func() bool, active func() bool, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if visible == nil {
		visible = AlwaysVisible
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		refresh:  refresh,
		visible:  visible,
		active:   active,
		logger:   logger,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	logger := logging.Default(ctx, s.logger).With("service", "PollScheduler")

	if !s.visible() {
		logger.DebugContext(ctx, "tick skipped, not visible")
		return
	}
	if !s.active() {
		logger.DebugContext(ctx, "tick skipped, device not active")
		return
	}

	if err := s.refresh(ctx); err != nil {
		// No retry; the next tick will try again anyway.
		logger.WarnContext(ctx, "refresh failed", "error", err)
	}
}
