package weft

import (
	"fmt"

	"github.com/weftkit/weft/internal/identity"
	"github.com/weftkit/weft/pkg/domain"
)

// SliceDef is a user-authored slice definition: it receives the runtime tools
// and produces a plain value (state plus methods, derived getters, or
// attribute objects).
//
// A definition is run once per instantiation, and once more against a probing
// stand-in when its factory is resolved. Anything that must reflect current
// state belongs inside the getters it returns, not in the definition body.
type SliceDef func(t *Tools) map[string]any

// Model is a live view over a composition base (or, during assembly, over the
// component's state namespace). Each call re-derives the view; callers must
// not cache the returned map.
type Model func() map[string]any

// ExtensionDef extends a base factory. It receives a Model over the
// (selected-or-all) base properties and the runtime tools, and returns the
// extension's declared properties. On name collision with forwarded base
// properties, the extension wins.
type ExtensionDef func(model Model, t *Tools) map[string]any

// Factory is the tagged, two-phase wrapper around a slice definition. A
// Factory is resolved (its contract shape is known) but not yet instantiated;
// it holds no mutable state and is shareable across instantiations.
//
// Composed factories form an explicit chain: each node retains a reference to
// its base, so contract extraction and consistency checks can walk the chain
// without re-executing user code.
type Factory struct {
	engine *Engine
	mark   identity.Mark
	name   string

	def SliceDef // root definition; nil for composed nodes

	base *Factory     // composition base; nil for roots
	ext  ExtensionDef // extension; set when base != nil
	pick []string     // selection; nil forwards all base properties

	shape  domain.Shape
	stable bool
}

// FactoryOption configures factory creation.
type FactoryOption func(*factoryConfig)

type factoryConfig struct {
	name string
}

// WithName names the factory. Errors raised by later composition and
// consistency checks carry this name; anonymous factories get a generated one.
func WithName(name string) FactoryOption {
	return func(c *factoryConfig) {
		c.name = name
	}
}

// State resolves a state-source slice definition into a tagged factory. The
// definition's contract shape is extracted eagerly, so authoring mistakes
// surface here rather than at first assembly.
func (e *Engine) State(def SliceDef, opts ...FactoryOption) (*Factory, error) {
	if def == nil {
		return nil, fmt.Errorf("nil slice definition")
	}

	var cfg factoryConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = e.nextName("state")
	}

	shape, stable, err := e.probe(cfg.name, def)
	if err != nil {
		return nil, err
	}

	f := &Factory{
		engine: e,
		name:   cfg.name,
		def:    def,
		shape:  shape,
		stable: stable,
	}
	if err := e.registry.Tag(&f.mark, domain.TagFactory); err != nil {
		return nil, err
	}

	e.logger.Debug("factory resolved", "factory", f.name, "props", len(f.shape), "stable", f.stable)
	return f, nil
}

// Name returns the factory's identity as used in errors.
func (f *Factory) Name() string {
	return f.name
}

// Shape returns the factory's contract shape.
func (f *Factory) Shape() domain.Shape {
	return f.shape.Clone()
}

// Stable reports whether the factory's shape is composition-safe, i.e. it
// does not depend on runtime state.
func (f *Factory) Stable() bool {
	return f.stable
}

// Base returns the composition base, or nil for root factories.
func (f *Factory) Base() *Factory {
	return f.base
}

// Root walks the composition chain to its origin.
func (f *Factory) Root() *Factory {
	node := f
	for node.base != nil {
		node = node.base
	}
	return node
}

// Instantiate is the phase boundary: it runs the slice definition against a
// tools object and returns the plain, untagged value it computed. Passing
// anything that is not a tools object issued by the same engine collapses the
// two phases and fails with PhaseViolationError.
func (f *Factory) Instantiate(v any) (map[string]any, error) {
	tools, ok := v.(*Tools)
	if !ok || tools == nil || !f.engine.registry.Has(tools.mark, domain.TagTools) {
		return nil, &domain.PhaseViolationError{Factory: f.name, Got: describeValue(f.engine, v)}
	}
	if tools.store == nil {
		return nil, &domain.MissingToolsError{Factory: f.name, Missing: []string{"store"}}
	}
	return f.run(tools, nil)
}

// run evaluates the factory's full composition chain. root, when non-nil,
// substitutes the chain root's value; assembly uses this to feed non-state
// slices the state namespace instead of re-instantiating the state source.
func (f *Factory) run(tools *Tools, root Model) (map[string]any, error) {
	return safeRun(f.name, func(t *Tools) map[string]any {
		return f.eval(t, root)
	}, tools)
}

// evalFailure carries an evaluation error out of model closures, which have
// no error return. safeRun converts it back.
type evalFailure struct {
	err error
}

func (f *Factory) eval(tools *Tools, root Model) map[string]any {
	if f.base == nil {
		if root != nil {
			return root()
		}
		out := f.def(tools)
		if out == nil {
			panic(evalFailure{fmt.Errorf("definition of factory %q returned nil", f.name)})
		}
		return out
	}

	model := Model(func() map[string]any {
		return filterProps(f.base.eval(tools, root), f.pick)
	})

	out := f.ext(model, tools)
	if out == nil {
		panic(evalFailure{fmt.Errorf("extension of factory %q returned nil", f.name)})
	}

	// Forward selected-or-all base properties, extension wins on collision.
	merged := model()
	for name, v := range out {
		merged[name] = v
	}
	return merged
}

// filterProps copies m restricted to pick; a nil pick forwards everything.
func filterProps(m map[string]any, pick []string) map[string]any {
	if pick == nil {
		out := make(map[string]any, len(m))
		for name, v := range m {
			out[name] = v
		}
		return out
	}
	out := make(map[string]any, len(pick))
	for _, name := range pick {
		if v, ok := m[name]; ok {
			out[name] = v
		}
	}
	return out
}

func describeValue(e *Engine, v any) string {
	switch x := v.(type) {
	case nil:
		return "nothing"
	case *Factory:
		if e.Is(x, domain.TagFactory) {
			return fmt.Sprintf("factory %q (still in the resolved phase)", x.name)
		}
		return "an unrecognized factory"
	case *Instance:
		return "an assembled instance"
	case *Tools:
		return "a tools object from a different engine"
	default:
		return fmt.Sprintf("%T", v)
	}
}
