package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator produces deterministic UUID-shaped identifiers for tests.
type IDGenerator struct {
	mu      sync.Mutex
	counter uint64
}

// NewIDGenerator constructs a generator yielding a fixed, predictable id
// sequence.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next identifier in the sequence. The value follows the
// UUID v4 layout so it is accepted anywhere a generated device id or
// fingerprint is expected.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.counter)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
