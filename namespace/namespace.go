// Package namespace resolves dotted-path prefix metadata for a loader chain.
// A Definer decides whether metadata must be established for a prefix and
// supplies it; a Table records established metadata per loader and chains to
// the ancestor loader's table so that an ancestor's record wins regardless of
// the loader's delegation order for artifacts.
package namespace

import "sync"

// Of returns the dotted prefix of a fully qualified name, or the empty
// string for an unqualified name: Of("a.b.C") == "a.b", Of("C") == "".
func Of(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return ""
}

// Definition is the metadata a Definer proposes for a namespace prefix.
// A zero Definition means "no definition required".
type Definition struct {
	// Defined reports whether metadata must be established for the prefix.
	Defined bool

	// Specification metadata.
	SpecTitle   string
	SpecVersion string
	SpecVendor  string

	// Implementation metadata.
	ImplTitle   string
	ImplVersion string
	ImplVendor  string

	// SealBase seals the namespace to the given base locator when non-empty.
	// Two payloads claiming the same prefix must agree on the seal base.
	SealBase string
}

// Sealed reports whether the definition seals its namespace.
func (d Definition) Sealed() bool { return d.SealBase != "" }

// CompatibleWith reports whether the definition can coexist with an already
// established record: both must make the identical sealing decision. An
// unsealed definition is compatible only with an unsealed record.
func (d Definition) CompatibleWith(r *Record) bool {
	return d.SealBase == r.SealBase
}

// Record is namespace metadata established for a prefix. Records are
// immutable once stored in a Table.
type Record struct {
	Prefix      string
	SpecTitle   string
	SpecVersion string
	SpecVendor  string
	ImplTitle   string
	ImplVersion string
	ImplVendor  string
	SealBase    string
}

// Sealed reports whether the record's namespace is sealed.
func (r *Record) Sealed() bool { return r.SealBase != "" }

func newRecord(prefix string, d Definition) *Record {
	return &Record{
		Prefix:      prefix,
		SpecTitle:   d.SpecTitle,
		SpecVersion: d.SpecVersion,
		SpecVendor:  d.SpecVendor,
		ImplTitle:   d.ImplTitle,
		ImplVersion: d.ImplVersion,
		ImplVendor:  d.ImplVendor,
		SealBase:    d.SealBase,
	}
}

// Table holds the namespace records established by one loader and chains to
// the ancestor loader's table. The zero value is not usable; construct with
// NewTable.
type Table struct {
	parent  *Table
	records sync.Map // prefix -> *Record
}

// NewTable returns an empty table chained to parent. A nil parent marks the
// root of the chain.
func NewTable(parent *Table) *Table {
	return &Table{parent: parent}
}

// Lookup returns the record for prefix, consulting this table first and then
// the ancestor chain, or nil if no record exists anywhere along the chain.
func (t *Table) Lookup(prefix string) *Record {
	if v, ok := t.records.Load(prefix); ok {
		return v.(*Record)
	}
	if t.parent != nil {
		return t.parent.Lookup(prefix)
	}
	return nil
}

// Establish stores a record for prefix built from the definition, unless a
// record was stored concurrently, in which case the concurrent winner is
// returned. The raced result tells the caller to re-check compatibility
// against the returned record.
func (t *Table) Establish(prefix string, d Definition) (rec *Record, raced bool) {
	actual, loaded := t.records.LoadOrStore(prefix, newRecord(prefix, d))
	return actual.(*Record), loaded
}
