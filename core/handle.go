package core

import "time"

// Handle describes one successfully activated artifact. A handle is created
// exactly once per (loader, name) pair; repeated resolutions of the same name
// through the same loader return the identical handle.
type Handle struct {
	// ID is a unique identifier assigned at activation time.
	ID string

	// Name is the fully qualified dotted name of the artifact.
	Name string

	// LoaderID identifies the loader that performed the activation. When a
	// resolution was delegated along an ancestor chain, LoaderID names the
	// loader that actually owned the payload.
	LoaderID string

	// Value is whatever the Activator produced from the payload.
	Value any

	// ActivatedAt records when the activation completed.
	ActivatedAt time.Time
}

// Descriptor identifies one loadable artifact by its fully qualified dotted
// name. It is the map key used by the batch Load helper; additional metadata
// fields may be added without affecting comparability as long as they remain
// comparable types.
type Descriptor struct {
	// Name is the fully qualified dotted name, e.g. "metrics.collector.V2".
	Name string
}

// Namespace returns the dotted prefix of the descriptor's name, or the empty
// string for an unqualified name.
func (d Descriptor) Namespace() string {
	for i := len(d.Name) - 1; i >= 0; i-- {
		if d.Name[i] == '.' {
			return d.Name[:i]
		}
	}
	return ""
}
