package weft

import (
	"fmt"

	"github.com/weftkit/weft/pkg/domain"
)

// Composer builds a composition from a base factory. Obtain one through
// Engine.Compose; With produces the composed factory.
type Composer struct {
	engine *Engine
	base   *Factory
	err    error
}

// Compose starts a composition over base. The base must be a resolved
// factory issued by this engine; the error, if any, is reported by With so
// call chains stay fluent.
func (e *Engine) Compose(base *Factory) *Composer {
	c := &Composer{engine: e, base: base}
	if base == nil || !e.Is(base, domain.TagFactory) {
		name := ""
		if base != nil {
			name = base.name
		}
		c.err = &domain.PhaseViolationError{Factory: name, Got: describeValue(e, base)}
	}
	return c
}

// ComposeOption configures a single composition step.
type ComposeOption func(*composeConfig)

type composeConfig struct {
	name string
	pick []string
}

// Pick restricts which base properties are forwarded to the extension. Every
// name must exist in the base factory's contract shape; selections against
// shape-unstable bases are rejected.
func Pick(names ...string) ComposeOption {
	return func(c *composeConfig) {
		c.pick = names
	}
}

// As names the composed factory.
func As(name string) ComposeOption {
	return func(c *composeConfig) {
		c.name = name
	}
}

// With merges the base factory's resolved contract with an extension
// definition, returning a new resolved-phase factory. The extension is not
// invoked here beyond shape probing; its real invocation is deferred to
// instantiation time, mirroring the two-phase protocol.
//
// The composed contract shape is the union of the selected-or-all base
// properties and the extension's declared properties, with the extension
// winning on name collision. Shadowing is a documented last-writer-wins
// policy, not an error: overriding a base property is the primary way
// extensions specialize behavior. Composition is associative; only when two
// extensions shadow the same property does application order pick the winner.
func (c *Composer) With(ext ExtensionDef, opts ...ComposeOption) (*Factory, error) {
	if c.err != nil {
		return nil, c.err
	}
	if ext == nil {
		return nil, fmt.Errorf("nil extension definition for base %q", c.base.name)
	}

	var cfg composeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = c.engine.nextName("composed")
	}

	if cfg.pick != nil {
		if !c.base.stable {
			return nil, &domain.UnstableShapeError{Factory: c.base.name}
		}
		for _, name := range cfg.pick {
			if _, ok := c.base.shape[name]; !ok {
				return nil, &domain.IncompatibleSelectionError{Factory: c.base.name, Property: name}
			}
		}
	}

	forwarded := c.base.shape.Clone()
	if cfg.pick != nil {
		forwarded = c.base.shape.Select(cfg.pick)
	}

	extShape, extStable, err := c.engine.probe(cfg.name, func(t *Tools) map[string]any {
		return ext(probeModel(forwarded), t)
	})
	if err != nil {
		return nil, err
	}

	f := &Factory{
		engine: c.engine,
		name:   cfg.name,
		base:   c.base,
		ext:    ext,
		pick:   cfg.pick,
		shape:  forwarded.Merge(extShape),
		stable: c.base.stable && extStable,
	}
	if err := c.engine.registry.Tag(&f.mark, domain.TagFactory); err != nil {
		return nil, err
	}

	c.engine.logger.Debug("factory composed",
		"factory", f.name, "base", c.base.name, "picked", len(cfg.pick), "props", len(f.shape))
	return f, nil
}
