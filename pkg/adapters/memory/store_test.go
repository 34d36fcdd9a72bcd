package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weftkit/weft/pkg/adapters/memory"
	"github.com/weftkit/weft/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_LazyMemoizesPerVersion(t *testing.T) {
	store := memory.NewStore()
	store.Write(map[string]any{"n": 1})

	var runs int
	accessor := store.LazyComputed(func() any {
		runs++
		return store.Read()["n"]
	})

	assert.Equal(t, 1, accessor())
	assert.Equal(t, 1, accessor())
	assert.Equal(t, 1, runs, "fn must not rerun between writes")

	store.Write(map[string]any{"n": 2})
	assert.Equal(t, 2, accessor())
	assert.Equal(t, 2, runs)
}

func TestMemoryStore_Destroy(t *testing.T) {
	store := memory.NewStore()
	store.Write(map[string]any{"n": 1})

	var fired int
	store.Subscribe(func(map[string]any) { fired++ })

	assert.NoError(t, store.Destroy())
	assert.Empty(t, store.Read())

	store.Write(map[string]any{"n": 2})
	assert.Equal(t, 0, fired, "subscribers are dropped on destroy")
}

func TestMemoryStore_UnsubscribeIsIdempotent(t *testing.T) {
	store := memory.NewStore()

	var fired int
	unsubscribe := store.Subscribe(func(map[string]any) { fired++ })
	unsubscribe()
	unsubscribe()

	store.Write(map[string]any{"n": 1})
	assert.Equal(t, 0, fired)
}
