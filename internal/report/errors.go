package report

import "errors"

// Validation errors are raised locally, before any network call. The view
// layer localizes them for display.
var (
	ErrDeviceNotActive    = errors.New("device not active")
	ErrNoRoomSelected     = errors.New("select a room")
	ErrRoomNotAllowed     = errors.New("room not allowed")
	ErrDescriptionTooLong = errors.New("description too long")
)

// ErrSubmitFailed is the generic, retry-worthy transport failure. The raw
// server error text is logged but never surfaced to the user.
var ErrSubmitFailed = errors.New("report submission failed")
