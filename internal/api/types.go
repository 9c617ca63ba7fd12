package api

import "time"

// ReportCategory distinguishes found-item reports from maintenance issues.
type ReportCategory string

const (
	CategoryFind  ReportCategory = "FIND"
	CategoryIssue ReportCategory = "ISSUE"
)

// RegisterRequest is the body of POST /api/device/register. The call is an
// idempotent upsert on the server side.
type RegisterRequest struct {
	DeviceID    string     `json:"device_id"`
	DisplayName string     `json:"display_name,omitempty"`
	DeviceInfo  DeviceInfo `json:"device_info"`
}

// DeviceInfo is the auxiliary device description carried by registration.
type DeviceInfo struct {
	UserAgent   string `json:"ua"`
	Platform    string `json:"platform"`
	Fingerprint string `json:"fp"`
}

// StatusResponse is the body of GET /api/device/status.
type StatusResponse struct {
	Status      string `json:"status"`
	DisplayName string `json:"display_name,omitempty"`
}

// PhotoPart is one binary photo attachment of a report submission.
type PhotoPart struct {
	Name string
	MIME string
	Data []byte
}

// ReportSubmission is the multipart payload of POST /api/reports.
type ReportSubmission struct {
	Category    ReportCategory
	Room        int
	Description string
	CreatedAt   time.Time
	Photos      []PhotoPart
}

// Report is an open item as returned by GET /api/reports/open.
type Report struct {
	ID            int64          `json:"id"`
	Room          int            `json:"room"`
	Type          ReportCategory `json:"type"`
	Description   string         `json:"description,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	ThumbnailURLs []string       `json:"thumbnailUrls"`
}

type openReportsResponse struct {
	Items []Report `json:"items"`
}

// BreakfastEntry is one expected breakfast attendee row for a date. The guest
// name historically appeared under three different fields; all are decoded so
// the workflow can pick the first non-empty one.
type BreakfastEntry struct {
	Room         int        `json:"room"`
	Name         string     `json:"name,omitempty"`
	GuestName    string     `json:"guest_name,omitempty"`
	GuestNameAlt string     `json:"guestName,omitempty"`
	Count        int        `json:"count"`
	CheckedAt    *time.Time `json:"checkedAt,omitempty"`
	CheckedBy    string     `json:"checkedBy,omitempty"`
}

// BreakfastDayResponse is the body of GET /api/v1/breakfast/day.
type BreakfastDayResponse struct {
	Status string           `json:"status,omitempty"`
	Items  []BreakfastEntry `json:"items"`
}

type breakfastCheckRequest struct {
	Date string `json:"date"`
	Room int    `json:"room"`
}
