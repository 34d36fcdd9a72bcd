package weft

import (
	"github.com/weftkit/weft/pkg/domain"
)

// Component is a consistency-checked bundle of one state-source factory and
// zero-or-more selectors, actions, and views factories. Construction runs the
// contract consistency check eagerly, so authoring errors surface at
// declaration time rather than at first assembly.
type Component struct {
	engine *Engine
	name   string
	state  *Factory
	slices map[domain.Namespace][]*Factory
}

// ComponentOption registers slice factories on a component.
type ComponentOption func(*Component)

// WithSelectors registers derived read-only view factories.
func WithSelectors(factories ...*Factory) ComponentOption {
	return func(c *Component) {
		c.slices[domain.NamespaceSelectors] = append(c.slices[domain.NamespaceSelectors], factories...)
	}
}

// WithActions registers intent-triggering operation factories.
func WithActions(factories ...*Factory) ComponentOption {
	return func(c *Component) {
		c.slices[domain.NamespaceActions] = append(c.slices[domain.NamespaceActions], factories...)
	}
}

// WithViews registers UI-attribute factories.
func WithViews(factories ...*Factory) ComponentOption {
	return func(c *Component) {
		c.slices[domain.NamespaceViews] = append(c.slices[domain.NamespaceViews], factories...)
	}
}

// Component bundles a state source with its dependent slice factories and
// verifies that every non-state factory was built, directly or through its
// composition chain, against the state source's contract shape.
func (e *Engine) Component(name string, state *Factory, opts ...ComponentOption) (*Component, error) {
	if state == nil || !e.Is(state, domain.TagFactory) {
		stateName := ""
		if state != nil {
			stateName = state.name
		}
		return nil, &domain.PhaseViolationError{Factory: stateName, Got: describeValue(e, state)}
	}

	c := &Component{
		engine: e,
		name:   name,
		state:  state,
		slices: make(map[domain.Namespace][]*Factory),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.checkConsistency(); err != nil {
		return nil, err
	}

	e.logger.Debug("component declared",
		"component", c.name,
		"state", state.name,
		"selectors", len(c.slices[domain.NamespaceSelectors]),
		"actions", len(c.slices[domain.NamespaceActions]),
		"views", len(c.slices[domain.NamespaceViews]))
	return c, nil
}

// checkConsistency walks every non-state factory's composition chain to its
// root. The root must be the component's state source, or carry a contract
// shape that is a structural subset of it (covering factories authored
// against a different but compatible state shape).
func (c *Component) checkConsistency() error {
	stateShape := c.state.shape

	for _, ns := range domain.Namespaces() {
		if ns == domain.NamespaceState {
			continue
		}
		for _, f := range c.slices[ns] {
			if f == nil || !c.engine.Is(f, domain.TagFactory) {
				return &domain.PhaseViolationError{Got: describeValue(c.engine, f)}
			}

			root := f.Root()
			if root == c.state {
				continue
			}
			if prop, ok := root.shape.SubsetOf(stateShape); !ok {
				return &domain.ContractMismatchError{
					Factory:  f.name,
					Property: prop,
					Against:  c.state.name,
					Ns:       ns,
				}
			}
		}
	}
	return nil
}

// Name returns the component's name.
func (c *Component) Name() string {
	return c.name
}

// Shapes returns the component's contract surface per namespace. Factories
// registered later in a namespace win on name collision, matching the
// assembly-time read order.
func (c *Component) Shapes() map[domain.Namespace]domain.Shape {
	out := map[domain.Namespace]domain.Shape{
		domain.NamespaceState: c.state.Shape(),
	}
	for _, ns := range domain.Namespaces() {
		if ns == domain.NamespaceState {
			continue
		}
		shape := domain.Shape{}
		for _, f := range c.slices[ns] {
			shape = shape.Merge(f.shape)
		}
		if len(shape) > 0 {
			out[ns] = shape
		}
	}
	return out
}
