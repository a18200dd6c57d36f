// Package core defines the central contracts of artiload: the Activator that
// turns a registered binary payload into a usable unit, the Handle describing
// an activated unit, artifact Descriptors, and the shared error taxonomy.
//
// The canonical contracts live here to avoid dependency cycles and keep the
// domain surface central. Implementation packages (registry, keylock,
// namespace, resource, loader) depend on this package rather than on each
// other's concrete types so callers can substitute alternatives in tests.
package core
