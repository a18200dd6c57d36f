// Package artiload loads previously generated binary code artifacts into a
// running process and makes them available as executable, addressable units.
// Payloads are produced elsewhere, keyed by a fully qualified dotted name,
// and handed to a Loader which registers them, serializes concurrent
// activations per name, decides whether payloads stay inspectable as byte
// resources after activation, resolves namespace metadata and delegates
// unresolved names along an ancestor chain.
//
// Most applications interact with this package by:
//  1. Calling Load with an Activator and a batch of descriptor-keyed
//     payloads, which composes a dedicated loader for the batch, or
//  2. Constructing a loader.Loader directly for long-lived incremental use
//     and calling Register / Resolve / Resource on it.
//
// All defaults are safe for local development and testing: latent
// persistence, parent-first delegation, trivial namespace definitions and no
// logging. Production setups typically supply a structured logger and a
// metrics collector.
package artiload

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/artiload/core"
	"github.com/hupe1980/artiload/loader"
	"github.com/hupe1980/artiload/logging"
	"github.com/hupe1980/artiload/metrics"
	"github.com/hupe1980/artiload/namespace"
)

// Options configures the Load helper.
type Options struct {
	// Parent is the ancestor loader to delegate to. Nil marks a root loader.
	Parent *loader.Loader

	// Order selects the delegation order. Defaults to ParentFirst.
	Order loader.DelegationOrder

	// Persistence selects the payload exposure policy. Defaults to Latent.
	Persistence loader.Persistence

	// Definer supplies namespace metadata. Defaults to namespace.Trivial.
	Definer namespace.Definer

	// PostProcessor optionally transforms payloads before activation.
	PostProcessor loader.PostProcessor

	// ForbidExisting fails a descriptor with core.AlreadyActiveError when
	// its name was already active under a different loader before this call.
	ForbidExisting bool

	// Sealed forbids later batch registrations on the composed loader.
	// Defaults to true: the loader exists for exactly this batch.
	Sealed bool

	// Concurrency bounds the number of parallel activations. Zero or
	// negative means unbounded.
	Concurrency int

	// Logger provides structured logging. Defaults to the NoOp logger.
	Logger logging.Logger

	// Metrics optionally records loader metrics. Nil disables collection.
	Metrics *metrics.Collector
}

// Result bundles the loader composed for a batch with the handles it
// produced, so callers can keep querying resources after the load.
type Result struct {
	// Loader is the loader constructed for the batch.
	Loader *loader.Loader

	// Handles maps every successfully activated descriptor to its handle.
	Handles map[core.Descriptor]*core.Handle
}

// Load composes one loader for the given batch and activates every
// descriptor. Activations run concurrently; a failed descriptor does not
// abort its siblings, and all per-descriptor failures are joined into the
// returned error. The returned handles cover the successful subset.
//
// With ForbidExisting, a descriptor whose name resolves to a handle owned by
// a different loader (an ancestor already had it active) fails with
// core.AlreadyActiveError.
func Load(ctx context.Context, activator core.Activator, artifacts map[core.Descriptor][]byte, optFns ...func(o *Options)) (*Result, error) {
	opts := Options{
		Order:       loader.ParentFirst,
		Persistence: loader.Latent,
		Sealed:      true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	byName := make(map[string][]byte, len(artifacts))
	for d, payload := range artifacts {
		byName[d.Name] = payload
	}

	l := loader.New(activator, func(o *loader.Options) {
		o.Parent = opts.Parent
		o.Order = opts.Order
		o.Persistence = opts.Persistence
		o.Definer = opts.Definer
		o.Artifacts = byName
		o.Sealed = opts.Sealed
		o.PostProcessor = opts.PostProcessor
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	var (
		g       errgroup.Group
		mu      sync.Mutex
		handles = make(map[core.Descriptor]*core.Handle, len(artifacts))
		errs    []error
	)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for d := range artifacts {
		d := d
		g.Go(func() error {
			h, err := l.Resolve(ctx, d.Name)
			if err == nil && opts.ForbidExisting && h.LoaderID != l.ID() {
				err = &core.AlreadyActiveError{Name: d.Name, LoaderID: h.LoaderID}
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			} else {
				handles[d] = h
			}
			// errors are collected above; returning them would cancel the
			// group and abort sibling activations
			return nil
		})
	}
	_ = g.Wait()

	return &Result{Loader: l, Handles: handles}, errors.Join(errs...)
}
