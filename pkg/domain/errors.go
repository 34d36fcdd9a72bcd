package domain

import (
	"fmt"
	"strings"
)

// PhaseViolationError is returned when the two factory phases are collapsed:
// a resolved factory was invoked without a recognized tools object, typically
// by treating the composition phase as the instantiation phase.
type PhaseViolationError struct {
	Factory string // name of the offending factory
	Got     string // description of the value supplied instead of tools
}

func (e *PhaseViolationError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("factory %q: phase violation: instantiation requires a tools object issued by the engine", e.Factory)
	}
	return fmt.Sprintf("factory %q: phase violation: expected a tools object, got %s", e.Factory, e.Got)
}

// MissingToolsError is returned when a tools object is present but lacks the
// capabilities required for instantiation.
type MissingToolsError struct {
	Factory string
	Missing []string // absent capability names
}

func (e *MissingToolsError) Error() string {
	return fmt.Sprintf("factory %q: tools object is missing %s", e.Factory, strings.Join(e.Missing, ", "))
}

// TagConflictError is returned when a value already tagged with one kind is
// re-tagged with a different kind.
type TagConflictError struct {
	Existing  TagKind
	Requested TagKind
}

func (e *TagConflictError) Error() string {
	return fmt.Sprintf("identity tag conflict: value is tagged %q, cannot re-tag as %q", e.Existing, e.Requested)
}

// UnstableShapeError is returned when a selection is attached to a factory
// whose contract shape depends on runtime data and therefore cannot be
// checked statically.
type UnstableShapeError struct {
	Factory string
}

func (e *UnstableShapeError) Error() string {
	return fmt.Sprintf("factory %q: shape is not composition-safe: it depends on runtime state", e.Factory)
}

// IncompatibleSelectionError is returned when a selection names a property
// absent from the base factory's contract shape.
type IncompatibleSelectionError struct {
	Factory  string // base factory
	Property string // the name the selection referenced
}

func (e *IncompatibleSelectionError) Error() string {
	return fmt.Sprintf("selection references %q, which is absent from the shape of factory %q", e.Property, e.Factory)
}

// ContractMismatchError is returned by the consistency checker when a
// non-state factory was not built against the component's state source, and
// its root shape diverges from the state shape.
type ContractMismatchError struct {
	Factory  string    // offending factory
	Property string    // property whose presence or kind diverges
	Against  string    // the state-source factory it was checked against
	Ns       Namespace // slice category the factory was registered under
}

func (e *ContractMismatchError) Error() string {
	return fmt.Sprintf("%s factory %q: contract mismatch with state source %q: property %q diverges",
		e.Ns, e.Factory, e.Against, e.Property)
}

// AssemblyError wraps a failure raised while instantiating a slice during
// assembly. The partial instance is never exposed; the underlying cause is
// reachable through Unwrap.
type AssemblyError struct {
	Ns      Namespace
	Factory string
	Err     error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly failed at %s factory %q: %v", e.Ns, e.Factory, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
