package photo

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PreviewHandle is a revocable reference to an in-memory preview resource.
type PreviewHandle string

// ErrUnknownHandle is returned when revoking a handle that is not live,
// which includes revoking the same handle twice.
var ErrUnknownHandle = errors.New("photo: unknown preview handle")

// Previewer derives and revokes preview resources. The staging queue is the
// only component allowed to call it.
type Previewer interface {
	Derive(blob Blob) (PreviewHandle, error)
	Revoke(handle PreviewHandle) error
}

// MemoryPreviewer keeps preview resources as in-memory handles. Handle names
// embed a digest of the backing bytes plus a sequence number, so two previews
// of identical photos still get distinct handles.
type MemoryPreviewer struct {
	mu   sync.Mutex
	live map[PreviewHandle]struct{}
	seq  uint64
}

// NewMemoryPreviewer constructs an empty previewer.
func NewMemoryPreviewer() *MemoryPreviewer {
	return &MemoryPreviewer{live: make(map[PreviewHandle]struct{})}
}

// Derive registers a new live preview handle for the blob.
func (p *MemoryPreviewer) Derive(blob Blob) (PreviewHandle, error) {
	digest, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("photo: derive preview: %w", err)
	}
	digest.Write(blob.Data)
	sum := digest.Sum(nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	handle := PreviewHandle(fmt.Sprintf("mem://preview/%x-%d", sum[:8], p.seq))
	p.live[handle] = struct{}{}
	return handle, nil
}

// Revoke releases a live handle. Revoking twice is an error.
func (p *MemoryPreviewer) Revoke(handle PreviewHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.live[handle]; !ok {
		return ErrUnknownHandle
	}
	delete(p.live, handle)
	return nil
}

// LiveCount returns the number of currently live preview handles.
func (p *MemoryPreviewer) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// IsLive reports whether the handle has been derived and not yet revoked.
func (p *MemoryPreviewer) IsLive(handle PreviewHandle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.live[handle]
	return ok
}
