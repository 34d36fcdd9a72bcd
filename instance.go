package weft

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/weftkit/weft/internal/identity"
	"github.com/weftkit/weft/pkg/domain"
	"github.com/weftkit/weft/pkg/ports"
)

// Instance is the assembled component: one namespace per slice category,
// each exposing accessors that re-derive their value on every read from the
// underlying store. It owns its accessor closures but only borrows the store
// through the adapter; state is never duplicated here.
type Instance struct {
	engine    *Engine
	mark      identity.Mark
	component *Component
	store     ports.Store

	// values holds each non-state slice's instantiated output, in
	// registration order. Slices instantiate exactly once, at assembly; the
	// getters they produced close over the live model, so serving reads from
	// here stays current without re-running definition bodies.
	values map[domain.Namespace][]map[string]any

	methods map[string]any // callable surface of the state namespace
	frozen  map[string]any // fixed snapshot served during the assembly pass
	sealed  bool

	destroyOnce sync.Once
	destroyed   bool
}

// modelView is the live state namespace: the current store snapshot merged
// with the state slice's methods. Before assembly completes it serves the
// frozen snapshot instead, honoring the single-read ordering guarantee.
func (i *Instance) modelView() map[string]any {
	var base map[string]any
	if i.sealed {
		base = i.store.Read()
	} else {
		base = i.frozen
	}

	out := make(map[string]any, len(base)+len(i.methods))
	for name, v := range base {
		out[name] = v
	}
	for name, v := range i.methods {
		out[name] = v
	}
	return out
}

// Component returns the component this instance was assembled from.
func (i *Instance) Component() *Component {
	return i.component
}

// Keys returns every namespaced property key of the instance, sorted.
func (i *Instance) Keys() []string {
	var keys []string
	for ns, shape := range i.component.Shapes() {
		for _, name := range shape.Names() {
			keys = append(keys, ns.Key(name))
		}
	}
	sort.Strings(keys)
	return keys
}

// Get reads one namespaced property ("selectors.doubled"). Lazy and reactive
// accessors are invoked, so a read always reflects the current state; methods
// are returned as callables; plain values come from the current snapshot.
func (i *Instance) Get(key string) (any, error) {
	if i.destroyed {
		return nil, fmt.Errorf("instance of component %q is destroyed", i.component.name)
	}

	ns, prop, ok := domain.SplitKey(key)
	if !ok {
		return nil, fmt.Errorf("key %q carries no recognized namespace", key)
	}

	if ns == domain.NamespaceState {
		v, ok := i.modelView()[prop]
		if !ok {
			return nil, fmt.Errorf("state has no property %q", prop)
		}
		return evaluateProp(v), nil
	}

	// Later factories in a namespace win, matching Shapes' merge order.
	slices := i.component.slices[ns]
	for idx := len(slices) - 1; idx >= 0; idx-- {
		f := slices[idx]
		if _, declared := f.shape[prop]; !declared {
			continue
		}
		v, ok := i.values[ns][idx][prop]
		if !ok {
			return nil, fmt.Errorf("factory %q declared %q but did not produce it", f.name, prop)
		}
		return evaluateProp(v), nil
	}
	return nil, fmt.Errorf("component %q has no key %q", i.component.name, key)
}

// Snapshot evaluates a whole namespace into plain values. Lazy and reactive
// accessors are invoked; methods are omitted.
func (i *Instance) Snapshot(ns domain.Namespace) (map[string]any, error) {
	if i.destroyed {
		return nil, fmt.Errorf("instance of component %q is destroyed", i.component.name)
	}

	var raw map[string]any
	if ns == domain.NamespaceState {
		raw = i.modelView()
	} else {
		raw = make(map[string]any)
		for _, out := range i.values[ns] {
			for name, v := range out {
				raw[name] = v
			}
		}
	}

	snapshot := make(map[string]any, len(raw))
	for name, v := range raw {
		if domain.KindOf(v) == domain.KindMethod {
			continue
		}
		snapshot[name] = evaluateProp(v)
	}
	return snapshot, nil
}

// Invoke calls a method property ("actions.increment", "state.reset") and
// returns its results.
func (i *Instance) Invoke(key string, args ...any) (results []any, err error) {
	v, err := i.Get(key)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("key %q is not callable", key)
	}

	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("invoking %q: %v", key, r)
		}
	}()

	in := make([]reflect.Value, len(args))
	for idx, arg := range args {
		in[idx] = reflect.ValueOf(arg)
	}
	out := rv.Call(in)

	results = make([]any, len(out))
	for idx, o := range out {
		results[idx] = o.Interface()
	}
	return results, nil
}

// Decode evaluates a namespace and maps it onto a caller-owned struct.
func (i *Instance) Decode(ns domain.Namespace, out any) error {
	snapshot, err := i.Snapshot(ns)
	if err != nil {
		return err
	}
	return mapstructure.Decode(snapshot, out)
}

// Subscribe re-exports the adapter's push primitive scoped to this instance's
// store. It returns the adapter's disposer.
func (i *Instance) Subscribe(listener func(state map[string]any)) func() {
	return i.store.Subscribe(listener)
}

// Destroy tears the instance down, releasing adapter-held resources if the
// store supports it. The adapter's Destroy is called exactly once; further
// reads fail.
func (i *Instance) Destroy() error {
	var err error
	i.destroyOnce.Do(func() {
		i.destroyed = true
		if d, ok := i.store.(ports.Destroyer); ok {
			err = d.Destroy()
		}
	})
	return err
}

// evaluateProp realizes one property read: accessors are re-invoked so reads
// are pull-based and never stale; values and methods pass through.
func evaluateProp(v any) any {
	switch a := v.(type) {
	case domain.Accessor:
		return a()
	case domain.Binding:
		return a()
	}
	if domain.KindOf(v) == domain.KindLazy {
		return reflect.ValueOf(v).Call(nil)[0].Interface()
	}
	return v
}
