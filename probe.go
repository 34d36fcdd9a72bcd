package weft

import (
	"fmt"

	"github.com/weftkit/weft/pkg/domain"
)

// probeStore is the shape-probing stand-in used during contract extraction.
// It never executes adapter work: lazy and reactive accessors are returned as
// inert placeholders, and Read serves an empty snapshot while recording that
// the definition consulted live state.
type probeStore struct {
	reads int
}

func (p *probeStore) Read() map[string]any {
	p.reads++
	return map[string]any{}
}

func (p *probeStore) Write(partial map[string]any) {}

func (p *probeStore) Subscribe(listener func(state map[string]any)) func() {
	return func() {}
}

func (p *probeStore) LazyComputed(fn func() any) func() any {
	return func() any { return nil }
}

func (p *probeStore) ReactiveBinding(selectFn func(state map[string]any) any, transform func(any) any) func() any {
	return func() any { return nil }
}

// probe runs a definition twice against probing tools and derives its
// contract shape. A factory is shape-stable only if both passes agree and the
// definition did not branch on live state; unstable factories report the
// union of observed properties (the statically-declared superset) and refuse
// selections later.
func (e *Engine) probe(name string, run func(t *Tools) map[string]any) (domain.Shape, bool, error) {
	var shapes [2]domain.Shape
	readSeen := false

	for i := range shapes {
		store := &probeStore{}
		tools, err := e.Tools(store)
		if err != nil {
			return nil, false, err
		}

		out, err := safeRun(name, run, tools)
		if err != nil {
			return nil, false, fmt.Errorf("extracting shape of factory %q: %w", name, err)
		}
		shapes[i] = shapeOf(out)
		if store.reads > 0 {
			readSeen = true
		}
	}

	stable := !readSeen && shapes[0].Equal(shapes[1])
	return shapes[0].Merge(shapes[1]), stable, nil
}

// shapeOf classifies every property of a produced slice value.
func shapeOf(value map[string]any) domain.Shape {
	shape := make(domain.Shape, len(value))
	for name, v := range value {
		shape[name] = domain.KindOf(v)
	}
	return shape
}

// probeModel builds an inert stand-in for a composition base out of its
// contract shape, so extensions can be probed without instantiating the base.
func probeModel(shape domain.Shape) Model {
	return func() map[string]any {
		out := make(map[string]any, len(shape))
		for name, kind := range shape {
			out[name] = placeholder(kind)
		}
		return out
	}
}

func placeholder(kind domain.PropKind) any {
	switch kind {
	case domain.KindLazy:
		return domain.Accessor(func() any { return nil })
	case domain.KindReactive:
		return domain.Binding(func() any { return nil })
	case domain.KindMethod:
		return func(args ...any) any { return nil }
	default:
		return nil
	}
}

// safeRun executes a user-authored definition, converting panics into errors
// so authoring mistakes surface as diagnostics instead of crashes.
func safeRun(name string, run func(t *Tools) map[string]any, tools *Tools) (out map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ev, ok := r.(evalFailure); ok {
				err = ev.err
				return
			}
			err = fmt.Errorf("definition of factory %q panicked: %v", name, r)
		}
	}()

	out = run(tools)
	if out == nil {
		return nil, fmt.Errorf("definition of factory %q returned nil", name)
	}
	return out, nil
}
