package core

import "context"

// Activator turns a named binary payload into a runnable unit. It is the
// external collaborator that consumes the bytes a loader hands over; artiload
// itself never interprets payload contents. Implementations must be safe for
// concurrent use: a loader serializes activations of the same name but
// activates distinct names in parallel.
//
// The context carries the caller's deadline and any request-scoped values
// that should apply during activation. Implementations should honor
// cancellation for long-running activation work.
type Activator interface {
	Activate(ctx context.Context, name string, payload []byte) (any, error)
}

// ActivatorFunc adapts a plain function to the Activator interface.
type ActivatorFunc func(ctx context.Context, name string, payload []byte) (any, error)

// Activate calls the wrapped function.
func (f ActivatorFunc) Activate(ctx context.Context, name string, payload []byte) (any, error) {
	return f(ctx, name, payload)
}
