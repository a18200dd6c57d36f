// Package registry provides the concurrent name-to-payload table that backs a
// loader. It is the single source of truth for "registered but not yet
// activated" bytes.
//
// All mutation goes through insert-if-absent and load-and-delete primitives
// so that activations of distinct names never contend on a shared lock; the
// per-name serialization guarantee is provided by the loader's key lock
// table, not by this package. Payloads are copied on ingest and on
// non-destructive reads to avoid accidental external mutation of internal
// buffers.
package registry

import "sync"

// Registry is a concurrent mapping from fully qualified artifact names to
// their binary payloads. The zero value is not usable; construct with New.
type Registry struct {
	entries sync.Map // name -> []byte
}

// New returns a registry seeded with the given payloads. The seed map and its
// payload slices are copied; nil is an acceptable seed.
func New(seed map[string][]byte) *Registry {
	r := &Registry{}
	for name, payload := range seed {
		r.entries.Store(name, clone(payload))
	}
	return r
}

// StageIfAbsent inserts the payload for name only if no entry exists,
// returning whichever value existed before the call. The returned prior
// payload is a copy; existed reports whether an entry was already present.
// This is the staging primitive of batch registration: exactly one of two
// racing callers wins the insert for a given name.
func (r *Registry) StageIfAbsent(name string, payload []byte) (prior []byte, existed bool) {
	actual, loaded := r.entries.LoadOrStore(name, clone(payload))
	if !loaded {
		return nil, false
	}
	return clone(actual.([]byte)), true
}

// Lookup returns a copy of the payload for name without removing it, or nil
// if no entry exists. This is the manifest read path.
func (r *Registry) Lookup(name string) []byte {
	v, ok := r.entries.Load(name)
	if !ok {
		return nil
	}
	return clone(v.([]byte))
}

// Consume removes and returns the payload for name, or nil if no entry
// exists. The removed slice is returned without copying: once deleted the
// registry holds no further reference to it. This is the latent read path.
func (r *Registry) Consume(name string) []byte {
	v, ok := r.entries.LoadAndDelete(name)
	if !ok {
		return nil
	}
	return v.([]byte)
}

// Restore puts back a payload that existed before a staging call, undoing the
// staging of a superseded batch member. The payload is copied.
func (r *Registry) Restore(name string, payload []byte) {
	r.entries.Store(name, clone(payload))
}

// Discard force-removes the entry for name. It is idempotent: discarding an
// absent name is a no-op.
func (r *Registry) Discard(name string) {
	r.entries.Delete(name)
}

// Contains reports whether an entry for name is currently present.
func (r *Registry) Contains(name string) bool {
	_, ok := r.entries.Load(name)
	return ok
}

// Len returns the number of entries currently present. The count is a
// snapshot and may be stale under concurrent mutation.
func (r *Registry) Len() int {
	n := 0
	r.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Names returns a snapshot of the currently registered names. The slice is
// safe for caller mutation.
func (r *Registry) Names() []string {
	var names []string
	r.entries.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	return names
}

func clone(payload []byte) []byte {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp
}
