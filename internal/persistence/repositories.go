// Package persistence defines the durable device-state storage contract.
package persistence

import "context"

// DeviceStateRepository stores the single durable device record for this
// installation. LoadLegacyDeviceID reads the pre-versioning record that held
// only a bare device identifier; it is consulted once during migration and is
// never written again.
type DeviceStateRepository interface {
	LoadRecord(ctx context.Context) (DeviceRecord, error)
	SaveRecord(ctx context.Context, record DeviceRecord) error
	LoadLegacyDeviceID(ctx context.Context) (string, error)
}
