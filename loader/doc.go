// Package loader orchestrates the registration, activation and resource
// exposure of binary artifact payloads.
//
// A Loader owns a concurrent registry of name-to-payload entries, a per-name
// lock table serializing activations of the same name, a namespace table for
// dotted-prefix metadata and a reference to an optional ancestor loader.
// Instead of a subclass hierarchy, behavior is parameterized by two
// strategies chosen at construction: the DelegationOrder (ParentFirst or
// ChildFirst) and the Persistence policy (Manifest or Latent).
//
// Batch registration follows a staging and rollback protocol: payloads are
// inserted only if absent, activated under per-name locks, and a guaranteed
// cleanup phase restores any concurrent writer's pre-existing value or
// releases transient entries, so the registry is never observed in a state
// mixing two batches' partial results for one name.
package loader
