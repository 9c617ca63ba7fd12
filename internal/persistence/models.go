package persistence

import "time"

// DeviceRecord is the durable device identity record stored under the
// versioned state key.
type DeviceRecord struct {
	DeviceID    string `json:"device_id"`
	Fingerprint string `json:"fp"`
	DisplayName string `json:"display_name"`

	UpdatedAt time.Time `json:"-"`
}
