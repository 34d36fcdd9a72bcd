// Package memory provides the reference in-memory store adapter.
//
// It implements every primitive of ports.Store: shallow-merge writes,
// synchronous subscriber notification, version-counted lazy memoization, and
// reactive bindings. It is the adapter used by the engine's own tests and
// examples.
package memory

import (
	"sync"
)

// Store implements ports.Store in memory. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     map[string]any
	version   uint64
	nextSub   int
	listeners map[int]func(state map[string]any)
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state:     make(map[string]any),
		listeners: make(map[int]func(state map[string]any)),
	}
}

// Read returns a copy of the current state snapshot.
func (s *Store) Read() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() map[string]any {
	out := make(map[string]any, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// Write shallow-merges a partial update into state, bumps the logical state
// version, and notifies subscribers synchronously with the new snapshot.
func (s *Store) Write(partial map[string]any) {
	s.mu.Lock()
	for k, v := range partial {
		s.state[k] = v
	}
	s.version++
	snapshot := s.snapshotLocked()
	listeners := make([]func(map[string]any), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Subscribe registers a listener fired after each write. The returned
// disposer is idempotent.
func (s *Store) Subscribe(listener func(state map[string]any)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// LazyComputed returns an accessor memoized per logical state version: fn
// runs at most once between writes.
func (s *Store) LazyComputed(fn func() any) func() any {
	var memoMu sync.Mutex
	var memoVersion uint64
	var memo any
	var cached bool

	return func() any {
		s.mu.RLock()
		version := s.version
		s.mu.RUnlock()

		memoMu.Lock()
		defer memoMu.Unlock()
		if !cached || memoVersion != version {
			memo = fn()
			memoVersion = version
			cached = true
		}
		return memo
	}
}

// ReactiveBinding returns an accessor computing transform(selectFn(state))
// from the current snapshot on each call. A richer host would schedule it on
// its own notification graph; in memory it degenerates to a pull.
func (s *Store) ReactiveBinding(selectFn func(state map[string]any) any, transform func(any) any) func() any {
	return func() any {
		v := selectFn(s.Read())
		if transform != nil {
			return transform(v)
		}
		return v
	}
}

// Destroy clears state and drops all subscribers.
func (s *Store) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make(map[string]any)
	s.listeners = make(map[int]func(state map[string]any))
	s.version++
	return nil
}
