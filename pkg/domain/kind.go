package domain

import (
	"reflect"
	"strings"
)

// TagKind identifies what an engine-issued value is. It is the closed set of
// identity tags the runtime marker and the type system agree on.
type TagKind string

const (
	TagTools    TagKind = "tools"    // a runtime capability bundle
	TagFactory  TagKind = "factory"  // a resolved (not yet instantiated) factory
	TagInstance TagKind = "instance" // an assembled component instance
)

// PropKind is the abstract kind of a single property in a contract shape.
type PropKind string

const (
	// KindValue is a plain data property, read from the underlying store.
	KindValue PropKind = "value"

	// KindLazy is a zero-argument accessor recomputed on each read.
	KindLazy PropKind = "lazy"

	// KindReactive is an accessor participating in the host runtime's own
	// notification scheme. The core reads it exactly like a lazy accessor.
	KindReactive PropKind = "reactive"

	// KindMethod is a callable that takes arguments or performs writes.
	KindMethod PropKind = "method"
)

// Accessor is a zero-argument, lazily recomputed property produced by an
// adapter's LazyComputed primitive.
type Accessor func() any

// Binding is an accessor produced by an adapter's ReactiveBinding primitive.
// When an update is pushed is entirely adapter-defined; the core only
// guarantees it is called with current values.
type Binding func() any

// KindOf classifies a slice-produced property value into its abstract kind.
// Adapter-issued accessors carry their named type; other zero-argument
// single-result functions are treated as lazy getters; remaining functions
// are methods. Everything else is plain data.
func KindOf(v any) PropKind {
	switch v.(type) {
	case Accessor:
		return KindLazy
	case Binding:
		return KindReactive
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		t := rv.Type()
		if t.NumIn() == 0 && t.NumOut() == 1 {
			return KindLazy
		}
		return KindMethod
	}
	return KindValue
}

// Namespace is one slice category of an assembled component.
type Namespace string

const (
	NamespaceState     Namespace = "state"
	NamespaceSelectors Namespace = "selectors"
	NamespaceActions   Namespace = "actions"
	NamespaceViews     Namespace = "views"
)

// Namespaces lists all slice categories in assembly order.
func Namespaces() []Namespace {
	return []Namespace{NamespaceState, NamespaceSelectors, NamespaceActions, NamespaceViews}
}

// Key returns the namespaced key for a property ("selectors.doubled").
func (n Namespace) Key(prop string) string {
	return string(n) + "." + prop
}

// SplitKey splits a namespaced key into its namespace and property name.
// Returns false if the key carries no recognized namespace prefix.
func SplitKey(key string) (Namespace, string, bool) {
	idx := strings.IndexByte(key, '.')
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	ns := Namespace(key[:idx])
	switch ns {
	case NamespaceState, NamespaceSelectors, NamespaceActions, NamespaceViews:
		return ns, key[idx+1:], true
	}
	return "", "", false
}
