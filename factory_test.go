package weft_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftkit/weft"
	"github.com/weftkit/weft/pkg/adapters/memory"
	"github.com/weftkit/weft/pkg/domain"
)

func newTools(t *testing.T, engine *weft.Engine) *weft.Tools {
	t.Helper()
	tools, err := engine.Tools(memory.NewStore())
	require.NoError(t, err)
	return tools
}

func TestState_ResolvesShapeEagerly(t *testing.T) {
	engine := weft.New()

	factory, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{
			"count": 0,
			"label": "ready",
			"reset": func() {
				tools.Write(map[string]any{"count": 0})
			},
			"parity": tools.Lazy(func() any {
				n, _ := tools.Read()["count"].(int)
				return n % 2
			}),
		}
	}, weft.WithName("counter"))
	require.NoError(t, err)

	assert.Equal(t, "counter", factory.Name())
	assert.True(t, factory.Stable())
	assert.Equal(t, domain.Shape{
		"count":  domain.KindValue,
		"label":  domain.KindValue,
		"reset":  domain.KindMethod,
		"parity": domain.KindLazy,
	}, factory.Shape())
}

func TestState_NamesAnonymousFactories(t *testing.T) {
	engine := weft.New()

	factory, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{"x": 1}
	})
	require.NoError(t, err)
	assert.NotEmpty(t, factory.Name())
}

func TestState_RejectsNilDefinition(t *testing.T) {
	engine := weft.New()
	_, err := engine.State(nil)
	assert.Error(t, err)
}

func TestState_RejectsPanickingDefinition(t *testing.T) {
	engine := weft.New()

	_, err := engine.State(func(tools *weft.Tools) map[string]any {
		panic("boom")
	}, weft.WithName("broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestState_ReadDuringDefinitionIsUnstable(t *testing.T) {
	engine := weft.New()

	// Branching on live state during definition makes the shape
	// runtime-dependent: resolution still succeeds, but the factory refuses
	// static selections later.
	factory, err := engine.State(func(tools *weft.Tools) map[string]any {
		out := map[string]any{"base": 0}
		if _, ok := tools.Read()["flag"]; ok {
			out["extra"] = 1
		}
		return out
	}, weft.WithName("branching"))
	require.NoError(t, err)
	assert.False(t, factory.Stable())
}

func TestInstantiate_RequiresEngineTools(t *testing.T) {
	engine := weft.New()

	factory, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{"x": 1}
	}, weft.WithName("plain"))
	require.NoError(t, err)

	var phaseErr *domain.PhaseViolationError

	_, err = factory.Instantiate(nil)
	require.Error(t, err)
	assert.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, "plain", phaseErr.Factory)

	// A factory is not tools: treating the resolved phase as the
	// instantiated phase must fail the same way.
	_, err = factory.Instantiate(factory)
	require.Error(t, err)
	assert.True(t, errors.As(err, &phaseErr))

	// Tools issued by a different engine carry a foreign mark.
	other := weft.New()
	_, err = factory.Instantiate(newTools(t, other))
	require.Error(t, err)
	assert.True(t, errors.As(err, &phaseErr))
}

func TestInstantiate_ReturnsPlainValue(t *testing.T) {
	engine := weft.New()

	factory, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{"x": 41, "y": "z"}
	}, weft.WithName("plain"))
	require.NoError(t, err)

	out, err := factory.Instantiate(newTools(t, engine))
	require.NoError(t, err)
	assert.Equal(t, 41, out["x"])
	assert.Equal(t, "z", out["y"])
}

func TestInstantiate_NilReturnFails(t *testing.T) {
	engine := weft.New()

	// Resolution probes catch a nil-returning definition before a factory
	// ever exists.
	_, err := engine.State(func(tools *weft.Tools) map[string]any {
		return nil
	}, weft.WithName("void"))
	assert.Error(t, err)
}

func TestEngine_IsDistinguishesKinds(t *testing.T) {
	engine := weft.New()

	factory, err := engine.State(func(tools *weft.Tools) map[string]any {
		return map[string]any{"x": 1}
	})
	require.NoError(t, err)
	tools := newTools(t, engine)

	assert.True(t, engine.Is(factory, domain.TagFactory))
	assert.False(t, engine.Is(factory, domain.TagTools))
	assert.True(t, engine.Is(tools, domain.TagTools))
	assert.False(t, engine.Is(tools, domain.TagFactory))
	assert.False(t, engine.Is(42, domain.TagFactory))
	assert.False(t, engine.Is(nil, domain.TagFactory))

	// Marks are engine-scoped.
	other := weft.New()
	assert.False(t, other.Is(factory, domain.TagFactory))
}

func TestEngine_ToolsRequiresStore(t *testing.T) {
	engine := weft.New()

	_, err := engine.Tools(nil)
	var missing *domain.MissingToolsError
	require.Error(t, err)
	assert.True(t, errors.As(err, &missing))
}
