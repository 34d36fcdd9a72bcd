// Package identity implements the engine's identity tag registry.
//
// The registry attaches unforgeable markers to engine-created values so that
// phase boundaries can ask "is this a tools object?" without shape-sniffing.
// It is an explicit, injectable service rather than ambient global state:
// two engines in one process hold two registries, and a mark issued by one
// never verifies against the other.
package identity

import (
	"sync"

	"github.com/weftkit/weft/pkg/domain"
)

// Mark is the side channel carried by tagged values. The zero Mark is
// untagged. Marks are only constructible through a Registry; values embed
// them in unexported fields, keeping them out of normal enumeration.
type Mark struct {
	origin *Registry
	id     uint64
}

// Registry issues and verifies identity marks.
type Registry struct {
	mu    sync.RWMutex
	next  uint64
	kinds map[uint64]domain.TagKind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[uint64]domain.TagKind),
	}
}

// Tag records kind for the value owning m. Tagging is idempotent for a
// matching kind and returns TagConflictError when the mark already carries a
// different kind (including a kind issued by a foreign registry).
func (r *Registry) Tag(m *Mark, kind domain.TagKind) error {
	if m.origin != nil {
		existing, ok := m.origin.lookup(m.id)
		if !ok {
			existing = ""
		}
		if m.origin != r || existing != kind {
			return &domain.TagConflictError{Existing: existing, Requested: kind}
		}
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	m.origin = r
	m.id = r.next
	r.kinds[m.id] = kind
	return nil
}

// Has reports whether m was issued by this registry with the given kind.
// Zero marks and foreign marks never verify.
func (r *Registry) Has(m Mark, kind domain.TagKind) bool {
	if m.origin != r {
		return false
	}
	recorded, ok := r.lookup(m.id)
	return ok && recorded == kind
}

// Kind returns the kind recorded for m, if m was issued by this registry.
func (r *Registry) Kind(m Mark) (domain.TagKind, bool) {
	if m.origin != r {
		return "", false
	}
	return r.lookup(m.id)
}

func (r *Registry) lookup(id uint64) (domain.TagKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.kinds[id]
	return kind, ok
}
