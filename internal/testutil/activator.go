// Package testutil provides shared helpers for artiload tests. It is
// internal and should not be imported by external projects.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/artiload/core"
)

// Unit is the value a StubActivator produces for a successful activation.
type Unit struct {
	Name    string
	Payload []byte
}

// Call records one activation attempt observed by a StubActivator.
type Call struct {
	Name    string
	Payload []byte
}

// StubActivator implements core.Activator for tests. It records every
// activation, can be told to fail specific names and can defer to a custom
// function for scenarios such as intra-batch dependencies. Safe for
// concurrent use. Chain only the parts you need:
//
//	act := testutil.NewStubActivator().FailOn("bad.Artifact", errors.New("boom"))
type StubActivator struct {
	mu       sync.Mutex
	calls    []Call
	failures map[string]error
	fn       func(ctx context.Context, name string, payload []byte) (any, error)
}

var _ core.Activator = (*StubActivator)(nil)

// NewStubActivator creates a stub that succeeds for every name.
func NewStubActivator() *StubActivator {
	return &StubActivator{failures: make(map[string]error)}
}

// FailOn makes activation of name fail with err (chainable).
func (s *StubActivator) FailOn(name string, err error) *StubActivator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[name] = err
	return s
}

// Use installs a custom activation function invoked after call recording and
// failure injection (chainable).
func (s *StubActivator) Use(fn func(ctx context.Context, name string, payload []byte) (any, error)) *StubActivator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
	return s
}

// Activate implements core.Activator.
func (s *StubActivator) Activate(ctx context.Context, name string, payload []byte) (any, error) {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	s.mu.Lock()
	s.calls = append(s.calls, Call{Name: name, Payload: cp})
	err := s.failures[name]
	fn := s.fn
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, name, payload)
	}
	return &Unit{Name: name, Payload: cp}, nil
}

// Calls returns a snapshot of all recorded activation attempts.
func (s *StubActivator) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how often name was activated.
func (s *StubActivator) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// PayloadFor returns the payload of the first recorded activation of name,
// or an error if name was never activated.
func (s *StubActivator) PayloadFor(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.Name == name {
			return c.Payload, nil
		}
	}
	return nil, fmt.Errorf("no recorded activation for %q", name)
}
