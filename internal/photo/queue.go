// Package photo stages report photos and owns their preview resources.
package photo

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/hotel-staff-agent/internal/logging"
)

// MaxItems caps the staging queue at five photos per report.
const MaxItems = 5

// Blob is an owned binary image with its MIME type.
type Blob struct {
	Name string
	MIME string
	Data []byte
}

// Item is one staged photo together with its derived preview resource.
type Item struct {
	blob    Blob
	preview PreviewHandle
}

// Blob returns the staged bytes.
func (i Item) Blob() Blob { return i.blob }

// Preview returns the item's current preview handle.
func (i Item) Preview() PreviewHandle { return i.preview }

// CountObserver is notified after every structural change with the readout
// current/capacity.
type CountObserver interface {
	PhotoCountChanged(current, capacity int)
}

// Queue is the bounded in-memory photo staging collection. It exclusively
// owns the staged blobs and their preview resources: every structural change
// first revokes the entire preview set, then derives one fresh preview per
// remaining blob in order, so no preview ever outlives its entry and no index
// points at a stale resource.
type Queue struct {
	mu        sync.Mutex
	previewer Previewer
	observer  CountObserver
	items     []Item
	logger    *slog.Logger
}

// NewQueue constructs an empty queue. observer may be nil.
func NewQueue(previewer Previewer, observer CountObserver, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{previewer: previewer, observer: observer, logger: logger}
}

// Add appends the candidate blobs in input order. A candidate is silently
// rejected when the queue is full or its MIME type is not image/*. The number
// of accepted blobs is returned.
func (q *Queue) Add(ctx context.Context, blobs ...Blob) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	logger := logging.Default(ctx, q.logger).With("service", "PhotoQueue", "operation", "Add")
	q.revokeAllLocked(ctx, logger)

	accepted := 0
	for _, blob := range blobs {
		if len(q.items) >= MaxItems {
			logger.DebugContext(ctx, "rejected photo, queue full", "name", blob.Name)
			continue
		}
		if !isImageMIME(blob.MIME) {
			logger.DebugContext(ctx, "rejected photo, not an image", "name", blob.Name, "mime", blob.MIME)
			continue
		}
		q.items = append(q.items, Item{blob: blob})
		accepted++
	}

	q.deriveAllLocked(ctx, logger)
	q.notifyLocked()
	return accepted
}

// RemoveAt deletes the entry at the given index and reports whether the index
// was valid.
func (q *Queue) RemoveAt(ctx context.Context, index int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.items) {
		return false
	}

	logger := logging.Default(ctx, q.logger).With("service", "PhotoQueue", "operation", "RemoveAt")
	q.revokeAllLocked(ctx, logger)
	q.items = append(q.items[:index], q.items[index+1:]...)
	q.deriveAllLocked(ctx, logger)
	q.notifyLocked()
	return true
}

// Clear deletes all entries and revokes every preview resource. Called by the
// report workflow after a successful submission.
func (q *Queue) Clear(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	logger := logging.Default(ctx, q.logger).With("service", "PhotoQueue", "operation", "Clear")
	q.revokeAllLocked(ctx, logger)
	q.items = nil
	q.notifyLocked()
}

// Len returns the number of staged photos.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a snapshot of the staged entries in order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// revokeAllLocked releases every live preview exactly once.
func (q *Queue) revokeAllLocked(ctx context.Context, logger *slog.Logger) {
	for i := range q.items {
		if q.items[i].preview == "" {
			continue
		}
		if err := q.previewer.Revoke(q.items[i].preview); err != nil {
			logger.WarnContext(ctx, "failed to revoke preview", "handle", string(q.items[i].preview), "error", err)
		}
		q.items[i].preview = ""
	}
}

// deriveAllLocked derives one fresh preview per staged blob, in order.
func (q *Queue) deriveAllLocked(ctx context.Context, logger *slog.Logger) {
	for i := range q.items {
		handle, err := q.previewer.Derive(q.items[i].blob)
		if err != nil {
			logger.WarnContext(ctx, "failed to derive preview", "name", q.items[i].blob.Name, "error", err)
			continue
		}
		q.items[i].preview = handle
	}
}

func (q *Queue) notifyLocked() {
	if q.observer != nil {
		q.observer.PhotoCountChanged(len(q.items), MaxItems)
	}
}

func isImageMIME(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}
