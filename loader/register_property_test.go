package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/hupe1980/artiload/internal/testutil"
)

// TestRegister_RegistryConsistency drives random batches through Register
// and checks the registry afterwards: pre-existing payloads are never
// replaced, latent activations leave no residue, and manifest registrations
// remain inspectable regardless of activation outcome.
func TestRegister_RegistryConsistency(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		numNames := rapid.IntRange(1, 8).Draw(rt, "numNames")
		suffix := rapid.StringMatching(`[a-z0-9]{4}`).Draw(rt, "suffix")
		manifest := rapid.Bool().Draw(rt, "manifest")

		names := make([]string, numNames)
		preSeeded := make(map[string]bool, numNames)
		failing := make(map[string]bool, numNames)
		seed := make(map[string][]byte)
		batch := make(map[string][]byte, numNames)
		for i := range names {
			name := fmt.Sprintf("gen%s.Artifact%d", suffix, i)
			names[i] = name
			batch[name] = []byte("batch:" + name)
			if rapid.Bool().Draw(rt, fmt.Sprintf("preSeeded_%d", i)) {
				preSeeded[name] = true
				seed[name] = []byte("prior:" + name)
			}
			if rapid.Bool().Draw(rt, fmt.Sprintf("failing_%d", i)) {
				failing[name] = true
			}
		}

		act := testutil.NewStubActivator()
		for name := range failing {
			act.FailOn(name, errors.New("injected"))
		}
		l := New(act, func(o *Options) {
			if manifest {
				o.Persistence = Manifest
			}
			o.Artifacts = seed
		})

		handles, err := l.Register(context.Background(), batch)
		if len(failing) == 0 && err != nil {
			rt.Fatalf("unexpected register error: %v", err)
		}

		for _, name := range names {
			if failing[name] {
				if _, ok := handles[name]; ok {
					rt.Fatalf("%s: handle despite failed activation", name)
				}
			} else {
				h, ok := handles[name]
				if !ok {
					rt.Fatalf("%s: missing handle", name)
				}
				if h.LoaderID != l.ID() {
					rt.Fatalf("%s: handle owned by %s, want %s", name, h.LoaderID, l.ID())
				}
				// activation always sees the first-registered payload
				want := "batch:" + name
				if preSeeded[name] {
					want = "prior:" + name
				}
				payload, perr := act.PayloadFor(name)
				if perr != nil {
					rt.Fatalf("%s: %v", name, perr)
				}
				if string(payload) != want {
					rt.Fatalf("%s: activated %q, want %q", name, payload, want)
				}
			}

			got := l.registry.Lookup(name)
			switch {
			case manifest && preSeeded[name]:
				// insert-if-absent never replaces
				if string(got) != "prior:"+name {
					rt.Fatalf("%s: registry holds %q, want prior payload", name, got)
				}
			case manifest:
				if string(got) != "batch:"+name {
					rt.Fatalf("%s: registry holds %q, want batch payload", name, got)
				}
			case preSeeded[name] && failing[name]:
				// latent failure restores the payload it displaced
				if string(got) != "prior:"+name {
					rt.Fatalf("%s: registry holds %q, want restored prior", name, got)
				}
			default:
				// latent leaves nothing behind once the batch returns
				if got != nil {
					rt.Fatalf("%s: registry holds %q, want no entry", name, got)
				}
			}
		}
	})
}

// TestResolve_Idempotent checks that however many times a name is resolved,
// it is activated exactly once and every caller sees the same handle.
func TestResolve_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z]{2,6}\.[A-Z][a-z]{1,6}`).Draw(rt, "name")
		repeats := rapid.IntRange(1, 8).Draw(rt, "repeats")

		act := testutil.NewStubActivator()
		l := New(act, func(o *Options) {
			o.Artifacts = map[string][]byte{name: []byte("payload")}
		})

		first, err := l.Resolve(context.Background(), name)
		if err != nil {
			rt.Fatalf("resolve: %v", err)
		}
		for i := 0; i < repeats; i++ {
			h, err := l.Resolve(context.Background(), name)
			if err != nil {
				rt.Fatalf("resolve #%d: %v", i+1, err)
			}
			if h != first {
				rt.Fatalf("resolve #%d returned a different handle", i+1)
			}
		}
		if n := act.CallCount(name); n != 1 {
			rt.Fatalf("activated %d times, want 1", n)
		}
	})
}
