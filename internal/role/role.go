// Package role models the staff role a device is set up for. Roles are a
// closed set selected once at startup; each carries its own refresh
// configuration instead of being re-dispatched on strings at every call.
package role

import (
	"fmt"
	"strings"

	"github.com/example/hotel-staff-agent/internal/api"
)

// Role is one of the four staff roles.
type Role struct {
	kind kind
}

type kind int

const (
	kindHousekeeping kind = iota + 1
	kindMaintenance
	kindFrontdesk
	kindBreakfast
)

var (
	Housekeeping = Role{kind: kindHousekeeping}
	Maintenance  = Role{kind: kindMaintenance}
	Frontdesk    = Role{kind: kindFrontdesk}
	Breakfast    = Role{kind: kindBreakfast}
)

// Parse resolves a role name. Two historical misspellings of "maintenance"
// are accepted because the original service aliased them.
func Parse(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "housekeeping":
		return Housekeeping, nil
	case "maintenance", "maintanance", "mantenance":
		return Maintenance, nil
	case "frontdesk":
		return Frontdesk, nil
	case "breakfast":
		return Breakfast, nil
	default:
		return Role{}, fmt.Errorf("role: unknown role %q", name)
	}
}

// String returns the canonical role name.
func (r Role) String() string {
	switch r.kind {
	case kindHousekeeping:
		return "housekeeping"
	case kindMaintenance:
		return "maintenance"
	case kindFrontdesk:
		return "frontdesk"
	case kindBreakfast:
		return "breakfast"
	default:
		return "unknown"
	}
}

// IsZero reports whether the role was never set.
func (r Role) IsZero() bool {
	return r.kind == 0
}

// UsesBreakfast reports whether the role drives the breakfast workflow. The
// alternative is the report workflow; the two are mutually exclusive.
func (r Role) UsesBreakfast() bool {
	return r.kind == kindBreakfast
}

// ReportCategory returns the open-item category the role works with. The
// second return value is false for the breakfast role, which has no report
// category.
func (r Role) ReportCategory() (api.ReportCategory, bool) {
	switch r.kind {
	case kindMaintenance:
		return api.CategoryIssue, true
	case kindHousekeeping, kindFrontdesk:
		return api.CategoryFind, true
	default:
		return "", false
	}
}
