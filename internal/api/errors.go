package api

import "fmt"

// StatusError reports a non-2xx response. The server's error body is kept for
// logs only; user-facing surfaces show a generic localized message instead.
type StatusError struct {
	StatusCode int
	Operation  string
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s returned status %d", e.Operation, e.StatusCode)
}
