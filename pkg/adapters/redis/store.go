// Package redis provides a store adapter backed by a Redis JSON document,
// letting independent processes share one component state.
//
// State lives under a single key; a companion counter tracks the logical
// state version so lazy accessors can memoize between writes. Subscriber
// notification is in-process only: remote writers are observed on the next
// read, per the pull-based semantics of the core.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	backend "github.com/redis/go-redis/v9"
	"github.com/weftkit/weft/internal/logging"
)

// Store implements ports.Store using Redis.
type Store struct {
	client *backend.Client
	owned  bool // whether Destroy should close the client
	key    string
	ctx    context.Context
	logger *slog.Logger

	mu        sync.Mutex
	nextSub   int
	listeners map[int]func(state map[string]any)
}

// Option configures the store.
type Option func(*Store)

// WithKey sets the Redis key holding the state document
// (default "weft:state"). The version counter lives at "<key>:version".
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets the logger for transport diagnostics. The store is silent
// by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Redis store owning its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	store := newStore(client, opts...)
	store.owned = true
	return store
}

// NewFromClient creates a Redis store from an existing client. The caller
// keeps ownership of the client; Destroy will not close it.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	return newStore(client, opts...)
}

func newStore(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:    client,
		key:       "weft:state",
		ctx:       context.Background(),
		logger:    logging.NewNop(),
		listeners: make(map[int]func(state map[string]any)),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) versionKey() string {
	return s.key + ":version"
}

// Read returns the current state document. Transport failures are logged and
// surface as an empty snapshot; numbers decode as float64 per JSON.
func (s *Store) Read() map[string]any {
	val, err := s.client.Get(s.ctx, s.key).Result()
	if err != nil {
		if err != backend.Nil {
			s.logger.Error("redis: read failed", "key", s.key, "err", err)
		}
		return map[string]any{}
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		s.logger.Error("redis: corrupt state document", "key", s.key, "err", err)
		return map[string]any{}
	}
	return state
}

// Write merges a partial update into the state document and bumps the
// version counter. Writes are serialized in-process; cross-process write
// serialization is the host's responsibility, matching the single-writer
// convention of the adapter boundary.
func (s *Store) Write(partial map[string]any) {
	s.mu.Lock()
	state := s.Read()
	for k, v := range partial {
		state[k] = v
	}

	data, err := json.Marshal(state)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("redis: marshal state failed", "key", s.key, "err", err)
		return
	}

	pipe := s.client.Pipeline()
	pipe.Set(s.ctx, s.key, data, 0)
	pipe.Incr(s.ctx, s.versionKey())
	if _, err := pipe.Exec(s.ctx); err != nil {
		s.mu.Unlock()
		s.logger.Error("redis: write failed", "key", s.key, "err", err)
		return
	}

	listeners := make([]func(map[string]any), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// Subscribe registers an in-process listener fired after local writes.
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

// LazyComputed memoizes fn against the shared version counter, so a value
// computed by this process stays fresh even when another process wrote last.
func (s *Store) LazyComputed(fn func() any) func() any {
	var memoMu sync.Mutex
	var memoVersion int64 = -1
	var memo any

	return func() any {
		version, err := s.client.Get(s.ctx, s.versionKey()).Int64()
		if err != nil && err != backend.Nil {
			s.logger.Error("redis: version read failed", "key", s.versionKey(), "err", err)
			return fn()
		}

		memoMu.Lock()
		defer memoMu.Unlock()
		if memoVersion != version {
			memo = fn()
			memoVersion = version
		}
		return memo
	}
}

// ReactiveBinding computes transform(selectFn(state)) from the current
// document on each call.
func (s *Store) ReactiveBinding(selectFn func(state map[string]any) any, transform func(any) any) func() any {
	return func() any {
		v := selectFn(s.Read())
		if transform != nil {
			return transform(v)
		}
		return v
	}
}

// Destroy deletes the state document and version counter, drops local
// subscribers, and closes the client if this store owns it.
func (s *Store) Destroy() error {
	s.mu.Lock()
	s.listeners = make(map[int]func(state map[string]any))
	s.mu.Unlock()

	pipe := s.client.Pipeline()
	pipe.Del(s.ctx, s.key)
	pipe.Del(s.ctx, s.versionKey())
	if _, err := pipe.Exec(s.ctx); err != nil {
		return err
	}

	if s.owned {
		return s.client.Close()
	}
	return nil
}
