/*
Package ports defines the driven ports (interfaces) for the Weft engine.

These interfaces decouple the composition core from concrete reactive
runtimes, allowing the same component definitions to be assembled against an
in-memory store, a shared Redis-backed store, or a host framework's own
reactivity primitives.

# Key Interfaces

  - Store: The minimal primitive set an external runtime must supply
    (read, write, subscribe, lazy computation, reactive binding).
  - Destroyer: Optional teardown hook, called exactly once per instance.
*/
package ports
