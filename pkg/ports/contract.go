package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests verifying that a Store
// implementation adheres to the primitive interface contract. Adapter
// packages call it from their own tests.
func RunStoreContract(t *testing.T, store Store) {
	t.Run("Read and Write merge", func(t *testing.T) {
		store.Write(map[string]any{"count": 0, "name": "weft"})
		store.Write(map[string]any{"count": 1})

		state := store.Read()
		assert.EqualValues(t, 1, state["count"], "later writes win")
		assert.Equal(t, "weft", state["name"], "unrelated keys survive a partial write")
	})

	t.Run("Read returns a caller-owned snapshot", func(t *testing.T) {
		store.Write(map[string]any{"owned": "yes"})

		snapshot := store.Read()
		snapshot["owned"] = "mutated"

		assert.Equal(t, "yes", store.Read()["owned"], "mutating a snapshot must not leak into the store")
	})

	t.Run("Subscribe fires after writes and disposer stops it", func(t *testing.T) {
		var calls int
		var last map[string]any
		unsubscribe := store.Subscribe(func(state map[string]any) {
			calls++
			last = state
		})

		store.Write(map[string]any{"sub": 1})
		require.Equal(t, 1, calls)
		assert.EqualValues(t, 1, last["sub"])

		unsubscribe()
		store.Write(map[string]any{"sub": 2})
		assert.Equal(t, 1, calls, "listener must not fire after unsubscribe")
	})

	t.Run("LazyComputed reflects current state", func(t *testing.T) {
		store.Write(map[string]any{"lazy": 10})
		accessor := store.LazyComputed(func() any {
			return asFloat(store.Read()["lazy"]) * 2
		})

		assert.EqualValues(t, 20, accessor())

		store.Write(map[string]any{"lazy": 21})
		assert.EqualValues(t, 42, accessor(), "accessor must recompute after a state version change")
	})

	t.Run("ReactiveBinding selects and transforms", func(t *testing.T) {
		store.Write(map[string]any{"bound": "a"})
		binding := store.ReactiveBinding(
			func(state map[string]any) any { return state["bound"] },
			func(v any) any { return v.(string) + "!" },
		)

		assert.Equal(t, "a!", binding())

		store.Write(map[string]any{"bound": "b"})
		assert.Equal(t, "b!", binding())
	})
}

// asFloat normalizes numeric state values. Stores that persist through JSON
// (e.g. Redis) surface numbers as float64, the in-memory store keeps Go ints.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
