package redis_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftkit/weft/pkg/adapters/redis"
	"github.com/weftkit/weft/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, newTestStore(t))
}

func TestRedisStore_SharedDocument(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	// Two stores over the same key simulate two processes sharing state.
	writer := redis.NewFromClient(client, redis.WithKey("shared"))
	reader := redis.NewFromClient(client, redis.WithKey("shared"))

	writer.Write(map[string]any{"count": 1})

	state := reader.Read()
	assert.EqualValues(t, 1, state["count"])
}

func TestRedisStore_LazyObservesRemoteWrites(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	local := redis.NewFromClient(client, redis.WithKey("doc"))
	remote := redis.NewFromClient(client, redis.WithKey("doc"))

	local.Write(map[string]any{"n": 1.0})
	accessor := local.LazyComputed(func() any {
		return local.Read()["n"]
	})
	assert.EqualValues(t, 1, accessor())

	// A write by the other "process" bumps the shared version counter, so
	// the memoized value must be recomputed.
	remote.Write(map[string]any{"n": 2.0})
	assert.EqualValues(t, 2, accessor())
}

func TestRedisStore_KeyIsolation(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	a := redis.NewFromClient(client, redis.WithKey("a"))
	b := redis.NewFromClient(client, redis.WithKey("b"))

	a.Write(map[string]any{"x": 1})
	assert.Empty(t, b.Read())
}

func TestRedisStore_TransportErrorsUseInjectedLogger(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	var buf bytes.Buffer
	store := redis.NewFromClient(client,
		redis.WithKey("down"),
		redis.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	// Take the backend away so the next read fails at the transport.
	mr.Close()

	assert.Empty(t, store.Read(), "transport failure degrades to an empty snapshot")
	assert.Contains(t, buf.String(), "read failed")
}

func TestRedisStore_Destroy(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client, redis.WithKey("gone"))
	store.Write(map[string]any{"x": 1})

	require.NoError(t, store.Destroy())
	assert.Empty(t, store.Read())
	assert.False(t, mr.Exists("gone"))
	assert.False(t, mr.Exists("gone:version"))
}
