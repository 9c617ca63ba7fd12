package activation

import (
	"log/slog"
	"sync"
)

// Machine holds the current activation status and applies observed server
// values through the transition table.
type Machine struct {
	mu      sync.Mutex
	current Status
	logger  *slog.Logger
}

// NewMachine starts at StatusUnknown.
func NewMachine(logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{current: StatusUnknown, logger: logger}
}

// Current returns the last adopted status.
func (m *Machine) Current() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Observe adopts a server-reported status. The server stays authoritative
// even when the transition table rejects the direct move; the anomaly is
// logged because it means the server skipped a state we did not expect it to
// skip.
func (m *Machine) Observe(next Status) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !CanTransition(m.current, next) {
		m.logger.Warn("unexpected activation transition",
			"from", m.current.String(), "to", next.String())
	}
	m.current = next
	return m.current
}

// Reset forces the machine back to StatusUnknown, the state used when the
// server cannot be reached.
func (m *Machine) Reset() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = StatusUnknown
	return m.current
}
