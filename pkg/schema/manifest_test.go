package schema_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftkit/weft"
	"github.com/weftkit/weft/pkg/domain"
	"github.com/weftkit/weft/pkg/schema"
)

func declareCounter(t *testing.T) *weft.Component {
	t.Helper()
	engine := weft.New()

	state, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{
			"count": 0,
			"increment": func() {
				n, _ := tools.Read()["count"].(int)
				tools.Write(map[string]any{"count": n + 1})
			},
		}
	}, weft.WithName("counter"))
	require.NoError(t, err)

	stats, err := engine.Compose(state).With(func(model weft.Model, tools *weft.Tools) map[string]any {
		return map[string]any{
			"doubled": func() any {
				n, _ := model()["count"].(int)
				return n * 2
			},
		}
	}, weft.As("stats"))
	require.NoError(t, err)

	component, err := engine.Component("counter", state, weft.WithSelectors(stats))
	require.NoError(t, err)
	return component
}

func TestManifest_RoundTrip(t *testing.T) {
	component := declareCounter(t)
	manifest := schema.Snapshot(component)

	var buf bytes.Buffer
	require.NoError(t, manifest.Encode(&buf))

	decoded, err := schema.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, "counter", decoded.Component)
	assert.Equal(t, manifest.Namespaces, decoded.Namespaces)

	stateShape := decoded.Shape(domain.NamespaceState)
	assert.Equal(t, domain.KindValue, stateShape["count"])
	assert.Equal(t, domain.KindMethod, stateShape["increment"])

	selectorShape := decoded.Shape(domain.NamespaceSelectors)
	assert.Equal(t, domain.KindLazy, selectorShape["doubled"])
}

func TestManifest_DiffDetectsDrift(t *testing.T) {
	before := schema.Snapshot(declareCounter(t))
	after := &schema.Manifest{
		Component: "counter",
		Namespaces: map[string]map[string]string{
			"state": {
				"count": "lazy", // re-kinded
				// "increment" removed
			},
			"selectors": {
				"doubled": "lazy",
				"count":   "value",
				"tripled": "lazy", // added
			},
		},
	}

	drift := schema.Diff(before, after)
	assert.Contains(t, drift, "selectors.tripled: added (lazy)")
	assert.Contains(t, drift, "state.count: kind changed from value to lazy")
	assert.Contains(t, drift, "state.increment: removed (was method)")
}

func TestManifest_DiffEmptyWhenEqual(t *testing.T) {
	a := schema.Snapshot(declareCounter(t))
	b := schema.Snapshot(declareCounter(t))
	assert.Empty(t, schema.Diff(a, b))
}
