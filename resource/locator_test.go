package resource

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_URLEncoding(t *testing.T) {
	assert.Equal(t, "artiload://a/b/C", New("a.b.C", nil).URL())
	assert.Equal(t, "artiload://C", New("C", nil).URL())

	// a literal slash is escaped before dots become separators, so names
	// containing reserved characters stay collision-free
	assert.Equal(t, "artiload://a/b", New("a.b", nil).URL())
	assert.Equal(t, "artiload://a%2Fb", New("a/b", nil).URL())
	assert.NotEqual(t, New("a.b", nil).URL(), New("a/b", nil).URL())
	assert.NotEqual(t, New("a.b", nil).URL(), New("a%2Fb", nil).URL())
}

func TestLocator_SnapshotSemantics(t *testing.T) {
	payload := []byte("bytes")
	loc := New("a.B", payload)
	payload[0] = 'B'
	assert.Equal(t, "bytes", string(loc.Bytes()))

	// mutating the returned copy must not affect the snapshot
	out := loc.Bytes()
	out[0] = 'x'
	assert.Equal(t, "bytes", string(loc.Bytes()))
}

func TestLocator_Open(t *testing.T) {
	loc := New("a.B", []byte("payload"))

	r := loc.Open()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "payload", string(data))

	// each Open yields an independent reader from the start
	again, err := io.ReadAll(loc.Open())
	require.NoError(t, err)
	assert.Equal(t, "payload", string(again))
}

func TestLocator_Accessors(t *testing.T) {
	loc := New("a.B", []byte("123"))
	assert.Equal(t, "a.B", loc.Name())
	assert.Equal(t, 3, loc.Len())
	assert.Equal(t, loc.URL(), loc.String())
}
