/*
Package weft is a composition-and-contract engine for building declarative,
runtime-agnostic components.

An author declares four categories of slice definitions — a state/behavior
source, derived read-only selectors, intent-triggering actions, and
UI-attribute views — independent of any concrete reactive runtime. Slice
factories are combined through an algebra of extension and selective
inclusion, consistency-checked against a shared state contract, and assembled
into one namespaced instance whose accessors recompute on every read. The
actual reactive wiring is deferred to a swappable adapter (see pkg/ports and
pkg/adapters).

# Two-Phase Protocol

Every factory lives in two phases. Resolving a definition (Engine.State,
Engine.Compose) extracts its contract shape without touching a live runtime;
instantiating it (Component.Assemble, Factory.Instantiate) runs it against an
adapter's tools. Collapsing the phases — invoking a factory without a
recognized tools object — fails loudly with a PhaseViolationError instead of
silently producing a half-resolved object.

Definitions run once per probe and once per instantiation, so anything that
must reflect current state belongs in the getters they return, not in the
definition body itself.

# Usage

	engine := weft.New()

	counter, err := engine.State(func(t *weft.Tools) map[string]any {
		return map[string]any{
			"count": 0,
			"increment": func() {
				n, _ := t.Read()["count"].(int)
				t.Write(map[string]any{"count": n + 1})
			},
		}
	}, weft.WithName("counter"))
	if err != nil {
		log.Fatal(err)
	}

	stats, err := engine.Compose(counter).With(func(model weft.Model, t *weft.Tools) map[string]any {
		return map[string]any{
			"doubled": func() any {
				n, _ := model()["count"].(int)
				return n * 2
			},
		}
	}, weft.As("stats"))
	if err != nil {
		log.Fatal(err)
	}

	component, err := engine.Component("counter", counter, weft.WithSelectors(stats))
	if err != nil {
		log.Fatal(err)
	}

	instance, err := component.Assemble(memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}

	_, _ = instance.Invoke("state.increment")
	doubled, _ := instance.Get("selectors.doubled") // 2

# Composition Semantics

compose(base).with(ext) forwards the selected-or-all base properties and
merges the extension's declared properties over them: the extension wins on
name collision (last writer wins; shadowing a base property is how extensions
specialize behavior). Composition is associative; only when
two extensions shadow the same property does application order pick the
winner.
*/
package weft
