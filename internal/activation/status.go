// Package activation tracks the server-confirmed device activation gate.
package activation

import "strings"

// Status is the activation state of this device as last confirmed by the
// server. It is derived, never persisted, and recomputed on every successful
// status query.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusActive
	StatusRevoked
)

// ParseStatus maps a wire status string to a Status. Unrecognized or missing
// values fall back to StatusUnknown rather than failing.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING":
		return StatusPending
	case "ACTIVE":
		return StatusActive
	case "REVOKED":
		return StatusRevoked
	default:
		return StatusUnknown
	}
}

// String returns the wire representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusActive:
		return "ACTIVE"
	case StatusRevoked:
		return "REVOKED"
	default:
		return "UNKNOWN"
	}
}

// IsActive reports whether data fetching and mutations are permitted.
func (s Status) IsActive() bool {
	return s == StatusActive
}

// transitions enumerates the legal direct status changes. Unknown acts as the
// reset state: connectivity loss may force any status back to Unknown, and a
// recovering handshake may move from Unknown to anything. A revoked device
// only comes back through re-registration, which surfaces as Pending.
var transitions = map[Status][]Status{
	StatusUnknown: {StatusPending, StatusActive, StatusRevoked},
	StatusPending: {StatusUnknown, StatusActive, StatusRevoked},
	StatusActive:  {StatusUnknown, StatusPending, StatusRevoked},
	StatusRevoked: {StatusUnknown, StatusPending},
}

// CanTransition reports whether moving from one status directly to another is
// legal. Self transitions are always legal.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
