package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/artiload/core"
	"github.com/hupe1980/artiload/keylock"
	"github.com/hupe1980/artiload/logging"
	"github.com/hupe1980/artiload/metrics"
	"github.com/hupe1980/artiload/namespace"
	"github.com/hupe1980/artiload/registry"
)

// DelegationOrder selects which side of a loader chain is consulted first
// when a name could resolve both locally and through an ancestor.
type DelegationOrder int

const (
	// ParentFirst checks the ancestor before attempting local activation.
	// This is the standard order; it prevents a descendant from shadowing
	// system-critical names.
	ParentFirst DelegationOrder = iota

	// ChildFirst attempts local activation before delegating, so a local
	// artifact shadows an ancestor's same-named artifact.
	ChildFirst
)

// String returns the order name.
func (o DelegationOrder) String() string {
	switch o {
	case ChildFirst:
		return "child-first"
	case ParentFirst:
		return "parent-first"
	default:
		return "unknown"
	}
}

// PostProcessor transforms a payload after it is read from the registry and
// before it reaches the Activator. It can be used for instrumentation or
// rewriting of generated artifacts.
type PostProcessor interface {
	Transform(name string, payload []byte) ([]byte, error)
}

// PostProcessorFunc adapts a plain function to the PostProcessor interface.
type PostProcessorFunc func(name string, payload []byte) ([]byte, error)

// Transform calls the wrapped function.
func (f PostProcessorFunc) Transform(name string, payload []byte) ([]byte, error) {
	return f(name, payload)
}

// Options configures a Loader instance.
type Options struct {
	// Parent is the ancestor loader to delegate to. Nil marks a root loader.
	Parent *Loader

	// Order selects the delegation order. Defaults to ParentFirst.
	Order DelegationOrder

	// Persistence selects the payload exposure policy. Defaults to Latent.
	Persistence Persistence

	// Definer supplies namespace metadata. Defaults to namespace.Trivial.
	Definer namespace.Definer

	// Artifacts seeds the registry at construction time. The map and its
	// payloads are copied.
	Artifacts map[string][]byte

	// Sealed forbids batch registrations after construction; a sealed
	// loader only ever activates the artifacts it was seeded with.
	Sealed bool

	// PostProcessor optionally transforms payloads before activation.
	PostProcessor PostProcessor

	// Logger provides structured logging. Defaults to the NoOp logger.
	Logger logging.Logger

	// Metrics optionally records loader metrics. Nil disables collection.
	Metrics *metrics.Collector
}

// Loader registers binary artifact payloads and makes them available as
// activated, addressable units. A loader owns its registry exclusively and
// is safe for concurrent use; activations of the same name are serialized
// per name while distinct names proceed in parallel.
type Loader struct {
	id          string
	parent      *Loader
	order       DelegationOrder
	persistence Persistence
	definer     namespace.Definer
	sealed      bool
	post        PostProcessor

	registry   *registry.Registry
	locks      *keylock.Table
	namespaces *namespace.Table
	activator  core.Activator

	activated sync.Map // name -> *core.Handle
	proposals sync.Map // prefix -> namespace.Definition

	logger  logging.Logger
	metrics *metrics.Collector
}

// New creates a loader around the given activator. Any unset option falls
// back to a safe default: root loader, parent-first delegation, latent
// persistence, trivial namespace definitions and no logging.
func New(activator core.Activator, optFns ...func(o *Options)) *Loader {
	opts := Options{
		Order:       ParentFirst,
		Persistence: Latent,
		Definer:     namespace.Trivial{},
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Definer == nil {
		opts.Definer = namespace.Trivial{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	var parentNamespaces *namespace.Table
	if opts.Parent != nil {
		parentNamespaces = opts.Parent.namespaces
	}

	return &Loader{
		id:          uuid.NewString(),
		parent:      opts.Parent,
		order:       opts.Order,
		persistence: opts.Persistence,
		definer:     opts.Definer,
		sealed:      opts.Sealed,
		post:        opts.PostProcessor,
		registry:    registry.New(opts.Artifacts),
		locks:       keylock.New(),
		namespaces:  namespace.NewTable(parentNamespaces),
		activator:   activator,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
}

// ID returns the loader's unique identifier.
func (l *Loader) ID() string { return l.id }

// Parent returns the ancestor loader, or nil for a root loader.
func (l *Loader) Parent() *Loader { return l.parent }

// Order returns the delegation order.
func (l *Loader) Order() DelegationOrder { return l.order }

// Persistence returns the payload exposure policy.
func (l *Loader) Persistence() Persistence { return l.persistence }

// Sealed reports whether batch registrations are forbidden.
func (l *Loader) Sealed() bool { return l.sealed }

// Registered returns a snapshot of the names currently held in the registry.
func (l *Loader) Registered() []string { return l.registry.Names() }

// Activated returns the handle for an already activated name without
// triggering an activation.
func (l *Loader) Activated(name string) (*core.Handle, bool) {
	v, ok := l.activated.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*core.Handle), true
}

// Namespace returns the metadata record visible for prefix along the loader
// chain, if one has been established.
func (l *Loader) Namespace(prefix string) (*namespace.Record, bool) {
	rec := l.namespaces.Lookup(prefix)
	return rec, rec != nil
}

// Resolve returns the activated handle for name, activating it on first use.
// The delegation order decides whether the ancestor chain or the local
// registry is consulted first; a name no loader along the chain knows yields
// an error wrapping core.ErrNotFound.
func (l *Loader) Resolve(ctx context.Context, name string) (*core.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The lock wraps the full check-cache, activate, delegate sequence so
	// two callers cannot both decide "not found locally" with inconsistent
	// observable state in between.
	tok := l.locks.Acquire(name)
	defer tok.Release()

	if h, ok := l.Activated(name); ok {
		return h, nil
	}

	if l.order == ParentFirst && l.parent != nil {
		h, err := l.parent.Resolve(ctx, name)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
	}

	h, err := l.activate(ctx, name)
	if err == nil {
		return h, nil
	}
	if l.order == ChildFirst && l.parent != nil && errors.Is(err, core.ErrNotFound) {
		return l.parent.Resolve(ctx, name)
	}
	return nil, err
}

// activate performs the local activation of name. The caller must hold the
// per-name lock.
func (l *Loader) activate(ctx context.Context, name string) (*core.Handle, error) {
	start := time.Now()

	if l.activator == nil {
		return nil, &core.ActivationError{Name: name, Err: errors.New("no activator configured")}
	}
	payload := l.persistence.lookup(l.registry, name)
	if payload == nil {
		return nil, fmt.Errorf("%s: %w", name, core.ErrNotFound)
	}

	if l.post != nil {
		transformed, err := l.post.Transform(name, payload)
		if err != nil {
			l.observeActivation(name, start, err)
			return nil, &core.ActivationError{Name: name, Err: err}
		}
		payload = transformed
	}

	if prefix := namespace.Of(name); prefix != "" {
		if err := l.defineNamespace(prefix, name); err != nil {
			l.observeActivation(name, start, err)
			return nil, err
		}
	}

	value, err := l.activator.Activate(ctx, name, payload)
	if err != nil {
		l.observeActivation(name, start, err)
		return nil, &core.ActivationError{Name: name, Err: err}
	}

	h := &core.Handle{
		ID:          uuid.NewString(),
		Name:        name,
		LoaderID:    l.id,
		Value:       value,
		ActivatedAt: time.Now(),
	}
	l.activated.Store(name, h)
	l.observeActivation(name, start, nil)
	return h, nil
}

// defineNamespace establishes or conflict-checks the namespace record for
// prefix. The definer is consulted at most once per prefix; its proposal is
// memoized and re-checked against the visible record on every activation so
// an incompatible record established elsewhere in the chain is still caught.
func (l *Loader) defineNamespace(prefix, name string) error {
	var def namespace.Definition
	if v, ok := l.proposals.Load(prefix); ok {
		def = v.(namespace.Definition)
	} else {
		proposed, err := l.definer.Define(prefix, name)
		if err != nil {
			return &core.ActivationError{Name: name, Err: err}
		}
		if v, raced := l.proposals.LoadOrStore(prefix, proposed); raced {
			def = v.(namespace.Definition)
		} else {
			def = proposed
		}
	}

	if !def.Defined {
		return nil
	}

	rec := l.namespaces.Lookup(prefix)
	if rec == nil {
		rec, _ = l.namespaces.Establish(prefix, def)
	}
	if !def.CompatibleWith(rec) {
		return &core.SealingError{Prefix: prefix, Name: name}
	}
	return nil
}

func (l *Loader) observeActivation(name string, start time.Time, err error) {
	dur := time.Since(start)
	if err != nil {
		l.logger.Error("activation failed artifact=%s: %v", name, err)
	} else {
		l.logger.Debug("activation completed artifact=%s duration=%s", name, dur)
	}
	if l.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		l.metrics.ObserveActivation(l.id, result, dur)
		l.metrics.SetRegistryEntries(l.id, l.registry.Len())
	}
}
