package ports

// Store is the adapter primitive interface: the minimal operation set an
// external reactive runtime must supply. The core only ever consumes these
// primitives; it performs no subscription delivery, change diffing, or render
// scheduling of its own.
type Store interface {
	// Read returns the current state snapshot. Callers own the returned map.
	Read() map[string]any

	// Write merges a partial update into state. Downstream notification
	// semantics (when and how subscribers fire) are adapter-defined.
	Write(partial map[string]any)

	// Subscribe registers a push-based listener invoked with the state
	// snapshot after each write. It returns a disposer.
	Subscribe(listener func(state map[string]any)) (unsubscribe func())

	// LazyComputed returns a zero-argument accessor that recomputes fn on
	// each call but may memoize internally between logical state versions.
	LazyComputed(fn func() any) func() any

	// ReactiveBinding returns an accessor intended to participate in the
	// host's own notification scheme. It is computed from the current state
	// via selectFn and post-processed by transform.
	ReactiveBinding(selectFn func(state map[string]any) any, transform func(any) any) func() any
}

// Destroyer is implemented by stores that hold releasable resources. The
// engine calls Destroy, if present, exactly once when the owning instance is
// torn down.
type Destroyer interface {
	Destroy() error
}
