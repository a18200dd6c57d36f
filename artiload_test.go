package artiload

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/artiload/core"
	"github.com/hupe1980/artiload/internal/testutil"
	"github.com/hupe1980/artiload/loader"
)

func TestLoad(t *testing.T) {
	act := testutil.NewStubActivator()
	result, err := Load(context.Background(), act, map[core.Descriptor][]byte{
		{Name: "app.Main"}:   []byte("main"),
		{Name: "app.Helper"}: []byte("helper"),
	})
	require.NoError(t, err)
	require.Len(t, result.Handles, 2)

	h := result.Handles[core.Descriptor{Name: "app.Main"}]
	require.NotNil(t, h)
	assert.Equal(t, result.Loader.ID(), h.LoaderID)
	assert.Equal(t, "main", string(h.Value.(*testutil.Unit).Payload))

	// defaults: sealed, latent, parent-first
	assert.True(t, result.Loader.Sealed())
	assert.Equal(t, loader.Latent, result.Loader.Persistence())
	assert.Equal(t, loader.ParentFirst, result.Loader.Order())
	assert.Empty(t, result.Loader.Registered())

	_, err = result.Loader.Register(context.Background(), map[string][]byte{"app.Late": []byte("x")})
	assert.ErrorIs(t, err, core.ErrSealed)
}

func TestLoad_Unsealed(t *testing.T) {
	result, err := Load(context.Background(), testutil.NewStubActivator(),
		map[core.Descriptor][]byte{{Name: "app.Main"}: []byte("main")},
		func(o *Options) { o.Sealed = false },
	)
	require.NoError(t, err)

	handles, err := result.Loader.Register(context.Background(), map[string][]byte{"app.Late": []byte("late")})
	require.NoError(t, err)
	assert.Contains(t, handles, "app.Late")
}

func TestLoad_SiblingFailureDoesNotAbort(t *testing.T) {
	cause := errors.New("boom")
	act := testutil.NewStubActivator().FailOn("app.Bad", cause)

	result, err := Load(context.Background(), act, map[core.Descriptor][]byte{
		{Name: "app.Bad"}:  []byte("bad"),
		{Name: "app.Good"}: []byte("good"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var actErr *core.ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, "app.Bad", actErr.Name)

	require.Len(t, result.Handles, 1)
	assert.Contains(t, result.Handles, core.Descriptor{Name: "app.Good"})
}

func TestLoad_ParentFirstResolvesThroughAncestor(t *testing.T) {
	parent := loader.New(testutil.NewStubActivator(), func(o *loader.Options) {
		o.Artifacts = map[string][]byte{"a.B": []byte("ancestor")}
	})

	result, err := Load(context.Background(), testutil.NewStubActivator(),
		map[core.Descriptor][]byte{{Name: "a.B"}: []byte("local")},
		func(o *Options) { o.Parent = parent },
	)
	require.NoError(t, err)
	h := result.Handles[core.Descriptor{Name: "a.B"}]
	require.NotNil(t, h)
	assert.Equal(t, parent.ID(), h.LoaderID)
}

func TestLoad_ChildFirstShadowsAncestor(t *testing.T) {
	parent := loader.New(testutil.NewStubActivator(), func(o *loader.Options) {
		o.Artifacts = map[string][]byte{"a.B": []byte("ancestor")}
	})

	result, err := Load(context.Background(), testutil.NewStubActivator(),
		map[core.Descriptor][]byte{{Name: "a.B"}: []byte("local")},
		func(o *Options) {
			o.Parent = parent
			o.Order = loader.ChildFirst
		},
	)
	require.NoError(t, err)
	h := result.Handles[core.Descriptor{Name: "a.B"}]
	require.NotNil(t, h)
	assert.Equal(t, result.Loader.ID(), h.LoaderID)
	assert.Equal(t, "local", string(h.Value.(*testutil.Unit).Payload))
}

func TestLoad_ForbidExisting(t *testing.T) {
	parent := loader.New(testutil.NewStubActivator(), func(o *loader.Options) {
		o.Artifacts = map[string][]byte{"a.B": []byte("ancestor")}
	})
	_, err := parent.Resolve(context.Background(), "a.B")
	require.NoError(t, err)

	result, err := Load(context.Background(), testutil.NewStubActivator(),
		map[core.Descriptor][]byte{
			{Name: "a.B"}:   []byte("local"),
			{Name: "a.New"}: []byte("new"),
		},
		func(o *Options) {
			o.Parent = parent
			o.ForbidExisting = true
		},
	)
	require.Error(t, err)

	var activeErr *core.AlreadyActiveError
	require.ErrorAs(t, err, &activeErr)
	assert.Equal(t, "a.B", activeErr.Name)
	assert.Equal(t, parent.ID(), activeErr.LoaderID)

	// the genuinely new descriptor still loaded
	require.Len(t, result.Handles, 1)
	assert.Contains(t, result.Handles, core.Descriptor{Name: "a.New"})
}

func TestLoad_ManifestExposesResources(t *testing.T) {
	result, err := Load(context.Background(), testutil.NewStubActivator(),
		map[core.Descriptor][]byte{{Name: "a.B"}: []byte("bytes")},
		func(o *Options) { o.Persistence = loader.Manifest },
	)
	require.NoError(t, err)

	loc, err := result.Loader.Resource("a.B")
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(loc.Bytes()))
}

func TestLoad_ConcurrencyBound(t *testing.T) {
	const n = 64
	artifacts := make(map[core.Descriptor][]byte, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("bulk.Artifact%02d", i)
		artifacts[core.Descriptor{Name: name}] = []byte(name)
	}
	act := testutil.NewStubActivator()

	result, err := Load(context.Background(), act, artifacts,
		func(o *Options) { o.Concurrency = 4 },
	)
	require.NoError(t, err)
	assert.Len(t, result.Handles, n)
	assert.Len(t, act.Calls(), n)
}
