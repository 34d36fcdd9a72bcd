/*
Package domain contains the core domain vocabulary for the Weft engine.

It defines the structural building blocks of the composition model, such as
property kinds, contract shapes, namespaces, and the error taxonomy. This
package is kept pure and free of external dependencies like I/O or adapters,
following Hexagonal Architecture principles.

# Key Entities

  - PropKind: The abstract kind of a produced property (value, lazy, reactive, method).
  - Shape: The structural surface (property names and kinds) a factory produces.
  - Namespace: One slice category of an assembled component (state, selectors, actions, views).
  - TagKind: The closed set of identity tags the engine issues (tools, factory, instance).
*/
package domain
