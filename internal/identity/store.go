// Package identity owns the durable device identity for this installation.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/hotel-staff-agent/internal/logging"
	"github.com/example/hotel-staff-agent/internal/persistence"
)

// DeviceIdentity is the stable identity triple for this device. DeviceID and
// Fingerprint never change once generated; DisplayName may be overwritten by
// the server's authoritative value.
type DeviceIdentity struct {
	DeviceID    string
	Fingerprint string
	DisplayName string
}

// Update describes a partial identity mutation. Nil fields are left unchanged.
type Update struct {
	DisplayName *string
}

// Store reads, migrates, and persists the device identity. Persistence is
// best effort: a failed write keeps the in-memory identity valid for the
// current session.
type Store struct {
	repo   persistence.DeviceStateRepository
	newID  func() string
	now    func() time.Time
	logger *slog.Logger

	mu     sync.Mutex
	cached *DeviceIdentity
}

// NewStore constructs an identity store. When newID is nil, UUID v4
// generation backed by crypto/rand is used.
func NewStore(repo persistence.DeviceStateRepository, newID func() string, now func() time.Time, logger *slog.Logger) *Store {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, newID: newID, now: now, logger: logger}
}

// Ensure returns the device identity, creating or migrating it on first call.
// The call is idempotent: repeated calls in one session return the identical
// triple. The current-format record is always written back so a migrated or
// partially persisted identity heals itself.
func (s *Store) Ensure(ctx context.Context) (DeviceIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	logger := logging.Default(ctx, s.logger).With("service", "IdentityStore", "operation", "Ensure")

	id, migrated := s.load(ctx, logger)
	if id == nil {
		generated := DeviceIdentity{
			DeviceID:    s.newID(),
			Fingerprint: s.newID(),
		}
		id = &generated
		logger.InfoContext(ctx, "generated new device identity", "device_id", id.DeviceID)
	} else if migrated {
		logger.InfoContext(ctx, "migrated legacy device record", "device_id", id.DeviceID)
	}

	s.persistLocked(ctx, logger, *id)
	s.cached = id
	return *id, nil
}

// Update merges the partial mutation into the identity and rewrites storage.
func (s *Store) Update(ctx context.Context, update Update) (DeviceIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		return DeviceIdentity{}, errors.New("identity: Update called before Ensure")
	}

	if update.DisplayName != nil {
		s.cached.DisplayName = strings.TrimSpace(*update.DisplayName)
	}

	logger := logging.Default(ctx, s.logger).With("service", "IdentityStore", "operation", "Update")
	s.persistLocked(ctx, logger, *s.cached)
	return *s.cached, nil
}

// load reads the current-format record, falling back to the legacy bare
// device id. The second return value reports whether a legacy record was
// promoted.
func (s *Store) load(ctx context.Context, logger *slog.Logger) (*DeviceIdentity, bool) {
	record, err := s.repo.LoadRecord(ctx)
	if err == nil {
		return &DeviceIdentity{
			DeviceID:    record.DeviceID,
			Fingerprint: record.Fingerprint,
			DisplayName: record.DisplayName,
		}, false
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		logger.WarnContext(ctx, "failed to read device record, treating as absent", "error", err)
	}

	legacyID, err := s.repo.LoadLegacyDeviceID(ctx)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			logger.WarnContext(ctx, "failed to read legacy device record", "error", err)
		}
		return nil, false
	}
	legacyID = strings.TrimSpace(legacyID)
	if legacyID == "" {
		return nil, false
	}

	// The legacy format carried no fingerprint; mint one now. It stays
	// stable from here on because the promoted record is written back.
	return &DeviceIdentity{DeviceID: legacyID, Fingerprint: s.newID()}, true
}

func (s *Store) persistLocked(ctx context.Context, logger *slog.Logger, id DeviceIdentity) {
	record := persistence.DeviceRecord{
		DeviceID:    id.DeviceID,
		Fingerprint: id.Fingerprint,
		DisplayName: id.DisplayName,
		UpdatedAt:   s.now(),
	}
	if err := s.repo.SaveRecord(ctx, record); err != nil {
		logger.WarnContext(ctx, "failed to persist device record", "error", err)
	}
}
