package loader

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/artiload/core"
)

// Register stages every payload in the batch, activates each name and
// returns the handles of the successful activations. Per-entry failures are
// reported as core.ActivationError values joined into the returned error;
// sibling entries are unaffected by one entry's failure.
//
// Staging is insert-if-absent: a name that already holds a payload keeps it,
// and the concurrent owner's value is what gets activated. After each name's
// activation completes or fails, a cleanup phase restores registry
// consistency for exactly that name: a pre-existing value is put back, a
// genuinely new one is released per the persistence policy. The registry is
// therefore never observed holding bytes from a failed or superseded batch
// member.
//
// Entries of one batch may depend on each other: an activation may resolve a
// sibling name through the same loader, which finds the sibling's staged
// payload (or its already cached handle).
//
// A sealed loader rejects the whole batch with core.ErrSealed.
func (l *Loader) Register(ctx context.Context, batch map[string][]byte) (map[string]*core.Handle, error) {
	if l.sealed {
		return nil, core.ErrSealed
	}
	start := time.Now()

	type staged struct {
		prior   []byte
		existed bool
	}
	priors := make(map[string]staged, len(batch))
	for name, payload := range batch {
		prior, existed := l.registry.StageIfAbsent(name, payload)
		priors[name] = staged{prior: prior, existed: existed}
	}

	handles := make(map[string]*core.Handle, len(batch))
	var errs []error
	for name := range batch {
		h, err := func() (*core.Handle, error) {
			defer l.unstage(name, priors[name].prior, priors[name].existed)
			return l.Resolve(ctx, name)
		}()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		handles[name] = h
	}

	err := errors.Join(errs...)
	l.logger.Info("batch registration completed staged=%d activated=%d duration=%s",
		len(batch), len(handles), time.Since(start))
	if l.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		l.metrics.ObserveRegistration(l.id, result)
		l.metrics.SetRegistryEntries(l.id, l.registry.Len())
	}
	return handles, err
}

// unstage undoes the staging of one batch entry. It always runs, regardless
// of which error path the activation took. If a concurrent caller had
// already staged the name, its value is restored; otherwise the transient
// entry is released per the persistence policy. No entry of another name is
// ever touched.
//
// A pre-existing value is not restored once a latent activation has
// consumed it: the registry holds a value only while some caller still
// needs it, and an activated name needs none.
func (l *Loader) unstage(name string, prior []byte, existed bool) {
	tok := l.locks.Acquire(name)
	defer tok.Release()

	if existed {
		if _, activated := l.activated.Load(name); activated && !l.persistence.IsManifest() {
			l.persistence.release(l.registry, name)
			if l.metrics != nil {
				l.metrics.ObserveRollback(l.id, "released")
			}
			return
		}
		l.registry.Restore(name, prior)
		if l.metrics != nil {
			l.metrics.ObserveRollback(l.id, "restored")
		}
		return
	}
	l.persistence.release(l.registry, name)
	if l.metrics != nil {
		l.metrics.ObserveRollback(l.id, "released")
	}
}
