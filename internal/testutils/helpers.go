// Package testutils holds shared helpers for the engine's test suites.
package testutils

import (
	"sync"

	"github.com/weftkit/weft/pkg/ports"
)

// RecordingStore wraps a Store and records every partial write and destroy
// call, so tests can assert on the traffic crossing the adapter boundary.
type RecordingStore struct {
	ports.Store

	mu       sync.Mutex
	writes   []map[string]any
	destroys int
}

// NewRecordingStore wraps inner.
func NewRecordingStore(inner ports.Store) *RecordingStore {
	return &RecordingStore{Store: inner}
}

// Write records the partial update before delegating.
func (r *RecordingStore) Write(partial map[string]any) {
	copied := make(map[string]any, len(partial))
	for k, v := range partial {
		copied[k] = v
	}

	r.mu.Lock()
	r.writes = append(r.writes, copied)
	r.mu.Unlock()

	r.Store.Write(partial)
}

// Writes returns the recorded partial updates in order.
func (r *RecordingStore) Writes() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]map[string]any, len(r.writes))
	copy(out, r.writes)
	return out
}

// Destroy counts teardown calls and delegates when the inner store supports it.
func (r *RecordingStore) Destroy() error {
	r.mu.Lock()
	r.destroys++
	r.mu.Unlock()

	if d, ok := r.Store.(ports.Destroyer); ok {
		return d.Destroy()
	}
	return nil
}

// Destroys returns how many times Destroy was called.
func (r *RecordingStore) Destroys() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroys
}
