package loader

import (
	"github.com/hupe1980/artiload/registry"
	"github.com/hupe1980/artiload/resource"
)

// Persistence decides whether a payload remains inspectable as a named byte
// resource after its artifact is activated. It is selected once at loader
// construction and immutable for the loader's lifetime.
type Persistence int

const (
	// Latent consumes a payload exactly once at activation time and never
	// exposes it as a resource. It minimizes retained memory by freeing raw
	// bytes the instant they are no longer needed. Latent is the default.
	Latent Persistence = iota

	// Manifest keeps payloads in the registry and exposes them as named
	// resources, trading memory for the ability to answer "give me the raw
	// bytes of artifact X" after activation.
	Manifest
)

// String returns the policy name.
func (p Persistence) String() string {
	switch p {
	case Manifest:
		return "manifest"
	case Latent:
		return "latent"
	default:
		return "unknown"
	}
}

// IsManifest reports whether payloads remain exposed after activation.
func (p Persistence) IsManifest() bool { return p == Manifest }

// lookup reads the payload for activation. Manifest reads without removal;
// Latent removes the entry, making the payload single-use.
func (p Persistence) lookup(r *registry.Registry, name string) []byte {
	if p == Manifest {
		return r.Lookup(name)
	}
	return r.Consume(name)
}

// locator synthesizes a byte resource for a resource-by-name query. Latent
// never exposes payloads.
func (p Persistence) locator(r *registry.Registry, name string) *resource.Locator {
	if p != Manifest {
		return nil
	}
	payload := r.Lookup(name)
	if payload == nil {
		return nil
	}
	return resource.New(name, payload)
}

// release cleans up a staged entry that was not genuinely new to the
// registry's current users. Manifest keeps the bytes; Latent force-removes
// them. Idempotent.
func (p Persistence) release(r *registry.Registry, name string) {
	if p == Latent {
		r.Discard(name)
	}
}
