// Package resource synthesizes addressable locators backed directly by
// in-memory byte buffers. A locator stands in for a filesystem path: a
// "read these bytes by name" caller sees a resource even though nothing was
// written to storage. Locator URLs use the artiload scheme and are reachable
// only through the in-process byte source; they are not resolvable by an
// external fetcher, and two locators for the same name may represent
// different byte snapshots.
package resource

import (
	"bytes"
	"io"
	"net/url"
	"strings"
)

// Scheme is the URL scheme of virtual artifact locators.
const Scheme = "artiload"

// Locator is an addressable view over one artifact payload. The byte source
// is a snapshot captured at creation time, not a live view of the registry;
// the locator remains readable even after the registry entry is consumed.
type Locator struct {
	name    string
	encoded string
	data    []byte
}

// New builds a locator for the named payload. No I/O is performed; the
// payload is copied so later mutation of the input slice does not leak into
// the locator.
func New(name string, payload []byte) *Locator {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return &Locator{
		name:    name,
		encoded: strings.ReplaceAll(url.PathEscape(name), ".", "/"),
		data:    cp,
	}
}

// Name returns the fully qualified dotted name the locator represents.
func (l *Locator) Name() string { return l.name }

// URL renders the locator address: the artiload scheme followed by the
// name as a slash path, dots turned into separators. The name is
// percent-encoded before the dots are converted, so a literal slash in a
// name stays escaped and two different names never alias to the same
// locator address. There is no port and no file segment.
func (l *Locator) URL() string {
	return Scheme + "://" + l.encoded
}

// String returns the locator URL.
func (l *Locator) String() string { return l.URL() }

// Open returns a reader over the snapshot bytes. Each call returns an
// independent reader positioned at the start.
func (l *Locator) Open() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(l.data))
}

// Bytes returns a copy of the snapshot payload.
func (l *Locator) Bytes() []byte {
	cp := make([]byte, len(l.data))
	copy(cp, l.data)
	return cp
}

// Len returns the payload size in bytes.
func (l *Locator) Len() int { return len(l.data) }
