// Package schema serializes component contract shapes into manifests.
//
// A manifest is the YAML rendition of a component's per-namespace contract
// surface. Integrators commit one as a golden file and diff it in CI, so a
// slice refactor that silently drops or re-kinds a property fails the build
// instead of a downstream consumer.
package schema

import (
	"fmt"
	"io"
	"sort"

	"github.com/weftkit/weft"
	"github.com/weftkit/weft/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Manifest captures a component's contract shapes: namespace -> property -> kind.
type Manifest struct {
	Component  string                       `yaml:"component"`
	Namespaces map[string]map[string]string `yaml:"namespaces"`
}

// Snapshot extracts a manifest from a declared component.
func Snapshot(c *weft.Component) *Manifest {
	m := &Manifest{
		Component:  c.Name(),
		Namespaces: make(map[string]map[string]string),
	}
	for ns, shape := range c.Shapes() {
		props := make(map[string]string, len(shape))
		for name, kind := range shape {
			props[name] = string(kind)
		}
		m.Namespaces[string(ns)] = props
	}
	return m
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return nil
}

// Decode reads a YAML manifest.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Shape reconstructs the contract shape of one namespace.
func (m *Manifest) Shape(ns domain.Namespace) domain.Shape {
	props, ok := m.Namespaces[string(ns)]
	if !ok {
		return nil
	}
	shape := make(domain.Shape, len(props))
	for name, kind := range props {
		shape[name] = domain.PropKind(kind)
	}
	return shape
}

// Diff compares a golden manifest against a current one and returns
// human-readable drift entries, empty when the contracts match.
func Diff(golden, current *Manifest) []string {
	var drift []string

	namespaces := map[string]struct{}{}
	for ns := range golden.Namespaces {
		namespaces[ns] = struct{}{}
	}
	for ns := range current.Namespaces {
		namespaces[ns] = struct{}{}
	}

	for _, ns := range sortedKeys(namespaces) {
		goldenProps := golden.Namespaces[ns]
		currentProps := current.Namespaces[ns]

		props := map[string]struct{}{}
		for name := range goldenProps {
			props[name] = struct{}{}
		}
		for name := range currentProps {
			props[name] = struct{}{}
		}

		for _, name := range sortedKeys(props) {
			want, inGolden := goldenProps[name]
			got, inCurrent := currentProps[name]
			switch {
			case !inCurrent:
				drift = append(drift, fmt.Sprintf("%s.%s: removed (was %s)", ns, name, want))
			case !inGolden:
				drift = append(drift, fmt.Sprintf("%s.%s: added (%s)", ns, name, got))
			case want != got:
				drift = append(drift, fmt.Sprintf("%s.%s: kind changed from %s to %s", ns, name, want, got))
			}
		}
	}
	return drift
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
