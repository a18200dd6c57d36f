// Package keylock issues per-name mutual-exclusion tokens scoped to one
// loader. It serializes concurrent activations of the same name without
// serializing activations of different names: distinct keys never share a
// mutex. Entries are reference counted and removed when the last holder
// releases, so the table stays proportional to the number of in-flight keys
// rather than the number of keys ever seen.
package keylock

import "sync"

// Table hands out per-key locks. The zero value is not usable; construct
// with New. A Table must not be copied after first use.
type Table struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// Token represents one held per-key lock. It must be released exactly once.
type Token struct {
	table *Table
	key   string
	e     *entry
}

// New returns an empty lock table.
func New() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// Acquire blocks until the lock for key is held and returns a token for it.
// Callers holding a token for one key may acquire tokens for other keys; the
// table imposes no ordering across keys.
func (t *Table) Acquire(key string) *Token {
	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()
	return &Token{table: t, key: key, e: e}
}

// Release gives up the lock. The entry is dropped from the table once no
// goroutine holds or awaits it.
func (tok *Token) Release() {
	tok.e.mu.Unlock()

	tok.table.mu.Lock()
	tok.e.refs--
	if tok.e.refs == 0 {
		delete(tok.table.entries, tok.key)
	}
	tok.table.mu.Unlock()
}

// Len returns the number of keys currently held or awaited.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
