// Package sqlite implements the device-state repository on an embedded
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/hotel-staff-agent/internal/persistence"
)

const (
	// currentStateKey is the versioned key holding the JSON device record.
	currentStateKey = "device.identity.v2"
	// legacyStateKey held a bare device id before records were versioned.
	legacyStateKey = "device_id"
)

// Store persists device state rows in a single key/value table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the state database at the given DSN.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	// The store is written from a single process; one connection avoids
	// SQLITE_BUSY churn on concurrent saves.
	db.SetMaxOpenConns(1)
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates the device_state table when absent.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS device_state (
			key        TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate device_state: %w", err)
	}
	return nil
}

// LoadRecord reads the versioned device record.
func (s *Store) LoadRecord(ctx context.Context) (persistence.DeviceRecord, error) {
	payload, updatedAt, err := s.loadRow(ctx, currentStateKey)
	if err != nil {
		return persistence.DeviceRecord{}, err
	}

	var record persistence.DeviceRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return persistence.DeviceRecord{}, fmt.Errorf("decode device record: %w", err)
	}
	record.UpdatedAt = updatedAt
	return record, nil
}

// SaveRecord writes the versioned device record, replacing any previous value.
func (s *Store) SaveRecord(ctx context.Context, record persistence.DeviceRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode device record: %w", err)
	}

	const query = `
		INSERT INTO device_state (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, currentStateKey, string(payload), s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save device record: %w", err)
	}
	return nil
}

// LoadLegacyDeviceID reads the pre-versioning bare device id row. The row is
// never deleted or rewritten; once the versioned record exists it is simply
// no longer consulted.
func (s *Store) LoadLegacyDeviceID(ctx context.Context) (string, error) {
	payload, _, err := s.loadRow(ctx, legacyStateKey)
	if err != nil {
		return "", err
	}
	return payload, nil
}

func (s *Store) loadRow(ctx context.Context, key string) (string, time.Time, error) {
	const query = `SELECT payload, updated_at FROM device_state WHERE key = ?`

	var payload, updatedRaw string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload, &updatedRaw)
	if err == sql.ErrNoRows {
		return "", time.Time{}, persistence.ErrNotFound
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("load device state %q: %w", key, err)
	}

	updatedAt, err := time.Parse(time.RFC3339, updatedRaw)
	if err != nil {
		updatedAt = time.Time{}
	}
	return payload, updatedAt, nil
}
