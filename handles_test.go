package chunkflow

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/chunkflow/grid"
	"github.com/hupe1980/chunkflow/internal/cache"
	"github.com/hupe1980/chunkflow/store"
	"github.com/hupe1980/chunkflow/subset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCacheOpensOnce(t *testing.T) {
	tb := newTestBackend()
	h := newHandleCache(map[string]Backend{"test": tb.backend()}, nil, nil, NoopLogger())

	const n = 64
	stores := make([]store.Store, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, key, err := h.resolve(context.Background(), "test://c/0")
			assert.NoError(t, err)
			assert.Equal(t, "c/0", key)
			stores[i] = s
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), tb.opens.Load())
	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
}

func TestHandleCacheBackendMismatch(t *testing.T) {
	ctx := context.Background()
	tb := newTestBackend()
	h := newHandleCache(map[string]Backend{
		"test":   tb.backend(),
		"memory": memoryBackend(),
		"s3":     {Split: splitBucket},
	}, nil, nil, NoopLogger())

	_, _, err := h.resolve(ctx, "test://c/0")
	require.NoError(t, err)

	_, _, err = h.resolve(ctx, "memory://c/0")
	assert.ErrorIs(t, err, ErrBackendMismatch)

	_, _, err = h.resolve(ctx, "gopher://c/0")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)

	_, _, err = h.resolve(ctx, "s3://bucket-only")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)

	require.NoError(t, h.close())
	_, _, err = h.resolve(ctx, "memory://c/0")
	assert.NoError(t, err)
}

func TestHandleCacheClosePurgesCache(t *testing.T) {
	ctx := context.Background()
	tb := newTestBackend()
	c := cache.NewLRU(1<<10, nil)
	h := newHandleCache(map[string]Backend{"test": tb.backend()}, nil, c, NoopLogger())

	require.NoError(t, tb.store.Set(ctx, "c/0", []byte{1, 2}))
	s, key, err := h.resolve(ctx, "test://c/0")
	require.NoError(t, err)
	_, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Stats().Entries)

	require.NoError(t, h.close())
	assert.Zero(t, c.Stats().Entries)
}

func TestHandleCacheRootMismatch(t *testing.T) {
	ctx := context.Background()
	h := newHandleCache(map[string]Backend{
		"s3": {
			Split: splitBucket,
			Open: func(context.Context, string) (store.Store, error) {
				return store.NewMemoryStore(), nil
			},
		},
	}, nil, nil, NoopLogger())

	_, key, err := h.resolve(ctx, "s3://bucket-a/arr/c/0")
	require.NoError(t, err)
	assert.Equal(t, "arr/c/0", key)

	_, _, err = h.resolve(ctx, "s3://bucket-b/arr/c/0")
	assert.ErrorIs(t, err, ErrBackendMismatch)
}

func TestSplitAddresses(t *testing.T) {
	root, key, err := splitEndpointBucket("localhost:9000/data/arr/c/1")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000/data", root)
	assert.Equal(t, "arr/c/1", key)

	_, _, err = splitEndpointBucket("localhost:9000")
	assert.ErrorIs(t, err, errMalformedAddress)

	_, _, err = memoryBackend().Split("")
	assert.ErrorIs(t, err, errMalformedAddress)
}

func TestFileBackendSplit(t *testing.T) {
	if filepath.Separator != '/' {
		t.Skip("POSIX paths")
	}
	fb := fileBackend()

	root, key, err := fb.Split("/data/arr/c/0")
	require.NoError(t, err)
	assert.Equal(t, "/", root)
	assert.Equal(t, "data/arr/c/0", key)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	root, key, err = fb.Split("arr/./c/0")
	require.NoError(t, err)
	assert.Equal(t, cwd, root)
	assert.Equal(t, "arr/c/0", key)

	rebased, ok := fb.Rebase("/", "/work", "arr/c/0")
	assert.True(t, ok)
	assert.Equal(t, "work/arr/c/0", rebased)

	_, ok = fb.Rebase("/work", "/", "etc/passwd")
	assert.False(t, ok)
}

func TestFileBackendRoundTrip(t *testing.T) {
	if filepath.Separator != '/' {
		t.Skip("POSIX paths")
	}
	ctx := context.Background()
	dir := t.TempDir()
	p, err := New(bytesZstd)
	require.NoError(t, err)
	defer p.Close()

	abs := ChunkDescription{
		StoreAddress:    "file://" + filepath.Join(dir, "arr", "c", "0"),
		ChunkShape:      []uint64{4},
		DataType:        "<i4",
		FillValue:       make([]byte, 4),
		OutputSelection: []subset.Selection{subset.SliceAll()},
	}
	src := Buffer{Data: i32s(1, -2, 3, -4), Shape: []uint64{4}, ElementSize: 4}
	require.NoError(t, p.StoreChunks(ctx, []ChunkDescription{abs}, src, 1))

	_, err = os.Stat(filepath.Join(dir, "arr", "c", "0"))
	require.NoError(t, err)

	// A relative address resolves against the working directory and is
	// rebased onto the open root.
	t.Chdir(dir)
	rel := abs
	rel.StoreAddress = "file://arr/c/0"
	rel.ChunkSelection = []subset.Selection{subset.SliceRange(1, 3)}
	rel.OutputSelection = []subset.Selection{subset.SliceRange(0, 2)}

	dst := NewBuffer([]uint64{2}, 4)
	require.NoError(t, p.RetrieveChunks(ctx, []ChunkDescription{rel}, dst, 1))
	assert.Equal(t, i32s(-2, 3), dst.Data)
}

func TestFileBackendOutsideRoot(t *testing.T) {
	if filepath.Separator != '/' {
		t.Skip("POSIX paths")
	}
	ctx := context.Background()
	dir := t.TempDir()
	t.Chdir(dir)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	h := newHandleCache(map[string]Backend{"file": fileBackend()}, nil, nil, NoopLogger())

	_, key, err := h.resolve(ctx, "file://arr/c/0")
	require.NoError(t, err)
	assert.Equal(t, "arr/c/0", key)

	_, key, err = h.resolve(ctx, "file://"+filepath.Join(cwd, "arr", "c", "1"))
	require.NoError(t, err)
	assert.Equal(t, "arr/c/1", key)

	_, _, err = h.resolve(ctx, "file:///etc/arr/c/0")
	assert.ErrorIs(t, err, ErrOutsideRoot)
	assert.NotErrorIs(t, err, ErrBackendMismatch)
}

func TestMemfsBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, err := New(bytesZstd)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	g, err := grid.NewRegular([]uint64{6, 6}, []uint64{4, 4})
	require.NoError(t, err)
	arr := Array{Address: "memfs://arr", Grid: g, Keys: grid.DefaultKeys(), DataType: "uint8"}

	sel := subset.New(subset.Range{Start: 1, Stop: 5}, subset.Range{Start: 2, Stop: 3})
	patch := []byte{1, 2, 3, 4}
	require.NoError(t, p.WriteRegion(ctx, arr, sel.Selections(), Buffer{Data: patch, Shape: sel.Shape(), ElementSize: 1}, 2))

	got, err := p.ReadRegion(ctx, arr, sel.Selections(), 2)
	require.NoError(t, err)
	assert.Equal(t, patch, got.Data)

	touched, err := g.Touched(sel)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), touched.GetCardinality())

	_, _, err = p.handles.resolve(ctx, "memory://arr/c/0/0")
	assert.ErrorIs(t, err, ErrBackendMismatch)
}
