package loader

import (
	"fmt"

	"github.com/hupe1980/artiload/core"
	"github.com/hupe1980/artiload/resource"
)

// Resource returns an addressable locator for the named artifact's payload
// or an error wrapping core.ErrNotFound if no loader along the delegation
// chain exposes one. Only manifest loaders expose payloads; the locator is a
// snapshot of the bytes at query time.
//
// Under ChildFirst, a name this loader has ever registered or activated
// shadows the ancestor's same-named resource even when the loader itself can
// no longer produce one (latent persistence): the query then reports absent
// instead of delegating, consistent with how an activation would resolve.
func (l *Loader) Resource(name string) (*resource.Locator, error) {
	if l.order == ChildFirst {
		return l.childFirstResource(name)
	}

	if l.parent != nil {
		if loc, err := l.parent.Resource(name); err == nil {
			return loc, nil
		}
	}
	if loc := l.persistence.locator(l.registry, name); loc != nil {
		l.observeResource(name, "hit")
		return loc, nil
	}
	l.observeResource(name, "miss")
	return nil, fmt.Errorf("resource %s: %w", name, core.ErrNotFound)
}

func (l *Loader) childFirstResource(name string) (*resource.Locator, error) {
	if loc := l.persistence.locator(l.registry, name); loc != nil {
		l.observeResource(name, "hit")
		return loc, nil
	}
	if l.owned(name) {
		l.observeResource(name, "shadowed")
		return nil, fmt.Errorf("resource %s: %w", name, core.ErrNotFound)
	}
	if l.parent != nil {
		return l.parent.Resource(name)
	}
	l.observeResource(name, "miss")
	return nil, fmt.Errorf("resource %s: %w", name, core.ErrNotFound)
}

// owned reports whether this loader has ever taken ownership of name: it is
// either currently registered or already activated here. The per-name lock
// synchronizes the check against an in-flight activation, which would
// otherwise be observable as neither registered nor activated between the
// latent consume and the handle store.
func (l *Loader) owned(name string) bool {
	if l.persistence.IsManifest() {
		// a manifest-owned name always produces a locator instead
		return false
	}
	tok := l.locks.Acquire(name)
	defer tok.Release()

	if l.registry.Contains(name) {
		return true
	}
	_, ok := l.activated.Load(name)
	return ok
}

// Resources returns every locator the delegation chain can produce for name,
// in delegation order: ChildFirst yields the locally owned locator before
// the ancestors' results, ParentFirst yields the ancestors' first. The slice
// is finite and may be empty.
func (l *Loader) Resources(name string) []*resource.Locator {
	local := l.persistence.locator(l.registry, name)
	var ancestors []*resource.Locator
	if l.parent != nil {
		ancestors = l.parent.Resources(name)
	}
	if local == nil {
		return ancestors
	}
	if l.order == ChildFirst {
		return append([]*resource.Locator{local}, ancestors...)
	}
	return append(ancestors, local)
}

func (l *Loader) observeResource(name, outcome string) {
	l.logger.Debug("resource query artifact=%s outcome=%s", name, outcome)
	if l.metrics != nil {
		l.metrics.ObserveResourceQuery(l.id, outcome)
	}
}
