// Package rooms describes the fixed set of guest rooms staff may report on.
package rooms

// The building has three floors: 101-109, 201-210, and 301-310.
var allowed = buildAllowed()

func buildAllowed() []int {
	out := make([]int, 0, 29)
	for room := 101; room <= 109; room++ {
		out = append(out, room)
	}
	for room := 201; room <= 210; room++ {
		out = append(out, room)
	}
	for room := 301; room <= 310; room++ {
		out = append(out, room)
	}
	return out
}

// Allowed returns the full room list in ascending order. The returned slice is
// a copy and safe to mutate.
func Allowed() []int {
	out := make([]int, len(allowed))
	copy(out, allowed)
	return out
}

// IsAllowed reports whether the given room number exists in the building.
func IsAllowed(room int) bool {
	for _, candidate := range allowed {
		if candidate == room {
			return true
		}
	}
	return false
}
