package domain

import "sort"

// Shape is the contract surface a factory is known to produce: property
// names mapped to their abstract kinds. Shapes are derived by probing, never
// stored mutable; treat them as values.
type Shape map[string]PropKind

// Names returns the property names in lexical order.
func (s Shape) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for name, kind := range s {
		out[name] = kind
	}
	return out
}

// Merge returns the union of s and over, with over winning on name collision.
// This is the combinator's "last writer wins" policy.
func (s Shape) Merge(over Shape) Shape {
	out := s.Clone()
	for name, kind := range over {
		out[name] = kind
	}
	return out
}

// Select returns the subset of s restricted to the given names. Names absent
// from s are ignored; callers validate selections before filtering.
func (s Shape) Select(names []string) Shape {
	out := make(Shape, len(names))
	for _, name := range names {
		if kind, ok := s[name]; ok {
			out[name] = kind
		}
	}
	return out
}

// Equal reports whether two shapes declare the same properties and kinds.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for name, kind := range s {
		if other[name] != kind {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every property of s exists in other with the same
// kind. On failure it returns the first offending property in lexical order,
// so contract errors are deterministic.
func (s Shape) SubsetOf(other Shape) (string, bool) {
	for _, name := range s.Names() {
		kind, ok := other[name]
		if !ok || kind != s[name] {
			return name, false
		}
	}
	return "", true
}
