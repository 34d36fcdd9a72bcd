package weft

import (
	"github.com/weftkit/weft/pkg/domain"
	"github.com/weftkit/weft/pkg/ports"
)

// Assemble runs the component against a live adapter store and produces the
// assembled instance. Assembly is atomic: if any slice fails to instantiate,
// no partial instance is ever exposed. Seed values are written before the
// dependent slices run, so a failed assembly can leave the seeded state
// properties behind in the store; callers that reuse a store after a failure
// should treat its contents as seeded-but-unassembled.
//
// Within the assembly pass, state is read once and held fixed while every
// dependent slice is derived from that single snapshot; later slices never
// observe a mutation caused by an earlier slice's instantiation. Once the
// instance is returned, every read re-derives from current state.
func (c *Component) Assemble(store ports.Store) (*Instance, error) {
	if store == nil {
		return nil, &domain.MissingToolsError{Factory: c.state.name, Missing: []string{"store"}}
	}

	tools, err := c.engine.Tools(store)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		engine:    c.engine,
		component: c,
		store:     store,
	}

	// Step 1: instantiate the state source against the adapter's primary
	// tools. Plain values seed the store; methods and accessors are retained
	// as the state namespace's callable surface.
	stateVal, err := c.state.Instantiate(tools)
	if err != nil {
		return nil, &domain.AssemblyError{Ns: domain.NamespaceState, Factory: c.state.name, Err: err}
	}

	seed := make(map[string]any)
	methods := make(map[string]any)
	for name, v := range stateVal {
		if domain.KindOf(v) == domain.KindValue {
			seed[name] = v
		} else {
			methods[name] = v
		}
	}
	if len(seed) > 0 {
		store.Write(seed)
	}
	inst.methods = methods
	inst.frozen = store.Read()

	// Step 2: non-state slices receive a view of the state namespace as
	// their model, never the raw adapter store. This is the seam that keeps
	// them decoupled from the concrete runtime. Each slice instantiates
	// exactly once; its output is retained and served on every later read.
	modelTools, err := c.engine.Tools(&modelStore{inst: inst})
	if err != nil {
		return nil, err
	}

	inst.values = make(map[domain.Namespace][]map[string]any)
	model := Model(inst.modelView)
	for _, ns := range domain.Namespaces() {
		if ns == domain.NamespaceState {
			continue
		}
		for _, f := range c.slices[ns] {
			out, err := f.run(modelTools, model)
			if err != nil {
				return nil, &domain.AssemblyError{Ns: ns, Factory: f.name, Err: err}
			}
			inst.values[ns] = append(inst.values[ns], out)
		}
	}

	inst.sealed = true
	if err := c.engine.registry.Tag(&inst.mark, domain.TagInstance); err != nil {
		return nil, err
	}

	c.engine.logger.Debug("component assembled", "component", c.name, "keys", len(inst.Keys()))
	return inst, nil
}

// modelStore backs the tools handed to non-state slices. Reads resolve to
// the instance's state namespace view; writes and reactive primitives
// delegate to the adapter store.
type modelStore struct {
	inst *Instance
}

func (m *modelStore) Read() map[string]any {
	return m.inst.modelView()
}

func (m *modelStore) Write(partial map[string]any) {
	m.inst.store.Write(partial)
}

func (m *modelStore) Subscribe(listener func(state map[string]any)) func() {
	return m.inst.store.Subscribe(listener)
}

func (m *modelStore) LazyComputed(fn func() any) func() any {
	return m.inst.store.LazyComputed(fn)
}

func (m *modelStore) ReactiveBinding(selectFn func(state map[string]any) any, transform func(any) any) func() any {
	return m.inst.store.ReactiveBinding(func(map[string]any) any {
		return selectFn(m.inst.modelView())
	}, transform)
}
