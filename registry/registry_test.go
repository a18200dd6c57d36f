package registry

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_StageIfAbsent(t *testing.T) {
	r := New(nil)
	prior, existed := r.StageIfAbsent("a.B", []byte("one"))
	if existed || prior != nil {
		t.Fatalf("expected fresh insert, got prior=%q existed=%v", prior, existed)
	}
	prior, existed = r.StageIfAbsent("a.B", []byte("two"))
	if !existed {
		t.Fatalf("expected existing entry")
	}
	if string(prior) != "one" {
		t.Fatalf("expected prior 'one', got %q", string(prior))
	}
	// the losing payload must not replace the winner
	if got := r.Lookup("a.B"); string(got) != "one" {
		t.Fatalf("expected 'one', got %q", string(got))
	}
}

func TestRegistry_CopyIsolation(t *testing.T) {
	r := New(nil)
	payload := []byte("hello")
	r.StageIfAbsent("a.B", payload)
	payload[0] = 'H'
	out := r.Lookup("a.B")
	if string(out) != "hello" { // should not reflect mutation
		t.Fatalf("expected 'hello', got %q", string(out))
	}
	out[0] = 'x'
	if got := r.Lookup("a.B"); string(got) != "hello" {
		t.Fatalf("expected isolation, got %q", string(got))
	}
}

func TestRegistry_ConsumeRemoves(t *testing.T) {
	r := New(map[string][]byte{"a.B": []byte("data")})
	if got := r.Consume("a.B"); string(got) != "data" {
		t.Fatalf("expected 'data', got %q", string(got))
	}
	if r.Contains("a.B") {
		t.Fatalf("expected entry removed after consume")
	}
	if got := r.Consume("a.B"); got != nil {
		t.Fatalf("expected nil for consumed entry, got %q", string(got))
	}
}

func TestRegistry_RestoreAndDiscard(t *testing.T) {
	r := New(nil)
	r.Restore("a.B", []byte("prior"))
	if got := r.Lookup("a.B"); string(got) != "prior" {
		t.Fatalf("expected restored value, got %q", string(got))
	}
	r.Discard("a.B")
	if r.Contains("a.B") {
		t.Fatalf("expected entry discarded")
	}
	r.Discard("a.B") // idempotent
}

func TestRegistry_NamesAndLen(t *testing.T) {
	r := New(map[string][]byte{"a.B": []byte("1"), "a.C": []byte("2")})
	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}
	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
}

func TestRegistry_ConcurrentStaging(t *testing.T) {
	r := New(nil)
	const callers = 64
	var wg sync.WaitGroup
	winners := make(chan string, callers)
	for i := 0; i < callers; i++ {
		payload := []byte(fmt.Sprintf("payload-%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, existed := r.StageIfAbsent("a.B", payload); !existed {
				winners <- string(payload)
			}
		}()
	}
	wg.Wait()
	close(winners)
	var won []string
	for w := range winners {
		won = append(won, w)
	}
	if len(won) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(won))
	}
	if got := r.Lookup("a.B"); string(got) != won[0] {
		t.Fatalf("registry holds %q but winner was %q", string(got), won[0])
	}
}
