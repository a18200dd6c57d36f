package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no artifact with the requested name is
	// known along the delegation chain. Resource queries wrap the same
	// sentinel, so errors.Is(err, ErrNotFound) covers both cases.
	ErrNotFound = errors.New("artifact not found")

	// ErrSealed is returned when a batch registration is attempted on a
	// sealed loader. Sealed loaders only activate the artifacts they were
	// constructed with.
	ErrSealed = errors.New("loader is sealed")
)

// ActivationError reports that a payload was rejected at activation time.
// It is recoverable per name: sibling entries of the same batch are
// unaffected and are cleaned up individually.
type ActivationError struct {
	// Name is the fully qualified name of the rejected artifact.
	Name string

	// Err is the underlying cause reported by the Activator.
	Err error
}

// Error implements the error interface.
func (e *ActivationError) Error() string {
	return fmt.Sprintf("activation of %q failed: %v", e.Name, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ActivationError) Unwrap() error { return e.Err }

// SealingError reports a namespace metadata conflict: an activation proposed
// sealing metadata that is incompatible with the record already established
// for the same prefix. It is surfaced distinctly from ActivationError so
// callers can tell "bad bytes" apart from a namespace policy conflict.
type SealingError struct {
	// Prefix is the dotted namespace prefix in conflict.
	Prefix string

	// Name is the artifact whose activation triggered the conflict.
	Name string
}

// Error implements the error interface.
func (e *SealingError) Error() string {
	return fmt.Sprintf("sealing violation for namespace %q while activating %q", e.Prefix, e.Name)
}

// AlreadyActiveError reports that an artifact was already active under a
// different loader before the current batch ran. It is only produced when
// the caller opted into ForbidExisting and signals a caller-level invariant
// violation rather than a loader bug.
type AlreadyActiveError struct {
	// Name is the artifact that was found active elsewhere.
	Name string

	// LoaderID identifies the loader that owns the existing activation.
	LoaderID string
}

// Error implements the error interface.
func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("artifact %q is already active under loader %s", e.Name, e.LoaderID)
}
