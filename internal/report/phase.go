package report

import (
	"log/slog"
	"sync"
)

// Phase is the submission state of the workflow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

// String returns a stable label for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// phaseTransitions enumerates the legal phase changes. Submitting is
// re-enterable on purpose: two user-triggered submissions may be in flight at
// once, they are neither queued nor de-duplicated.
var phaseTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseSubmitting},
	PhaseSubmitting: {PhaseSubmitting, PhaseSucceeded, PhaseFailed},
	PhaseSucceeded:  {PhaseSubmitting},
	PhaseFailed:     {PhaseSubmitting},
}

// canTransition reports whether moving between the two phases is legal.
func canTransition(from, to Phase) bool {
	for _, allowed := range phaseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// phaseCell guards the phase field. Illegal transitions are logged and
// refused; nothing in the workflow should ever hit one.
type phaseCell struct {
	mu      sync.Mutex
	current Phase
}

func (c *phaseCell) get() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *phaseCell) set(logger *slog.Logger, next Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !canTransition(c.current, next) {
		logger.Warn("illegal phase transition refused",
			"from", c.current.String(), "to", next.String())
		return
	}
	c.current = next
}
