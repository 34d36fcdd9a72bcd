package weft

import (
	"log/slog"

	"github.com/weftkit/weft/internal/identity"
	"github.com/weftkit/weft/pkg/domain"
	"github.com/weftkit/weft/pkg/ports"
)

// Tools is the runtime-supplied capability bundle a slice definition receives
// at instantiation time. It is tagged as "tools" so the two-phase protocol
// can detect when a consumer mistakenly treats it as a resolved value.
//
// A Tools value is borrowed for the duration of one resolution pass; slice
// definitions must not persist it beyond the closures they return.
type Tools struct {
	engine *Engine
	mark   identity.Mark
	store  ports.Store
	logger *slog.Logger
}

// Tools wraps an adapter store into a tagged capability bundle that the
// engine's factories accept for instantiation.
func (e *Engine) Tools(store ports.Store) (*Tools, error) {
	if store == nil {
		return nil, &domain.MissingToolsError{Missing: []string{"store"}}
	}

	t := &Tools{
		engine: e,
		store:  store,
		logger: e.logger,
	}
	if err := e.registry.Tag(&t.mark, domain.TagTools); err != nil {
		return nil, err
	}
	return t, nil
}

// Read returns the current state snapshot from the underlying store.
func (t *Tools) Read() map[string]any {
	return t.store.Read()
}

// Write merges a partial update into the underlying store.
func (t *Tools) Write(partial map[string]any) {
	t.store.Write(partial)
}

// Subscribe registers a push-based listener with the underlying store and
// returns its disposer.
func (t *Tools) Subscribe(listener func(state map[string]any)) func() {
	return t.store.Subscribe(listener)
}

// Lazy returns a lazily-memoized accessor backed by the adapter's
// LazyComputed primitive. Memoization between state versions is the
// adapter's choice; the core adds no caching layer of its own.
func (t *Tools) Lazy(fn func() any) domain.Accessor {
	return domain.Accessor(t.store.LazyComputed(fn))
}

// Bind returns a reactive binding backed by the adapter's ReactiveBinding
// primitive. When the host recomputes it is adapter-defined.
func (t *Tools) Bind(selectFn func(state map[string]any) any, transform func(any) any) domain.Binding {
	return domain.Binding(t.store.ReactiveBinding(selectFn, transform))
}
