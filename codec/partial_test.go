package codec

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/internal/arena"
	"github.com/hupe1980/chunkflow/store"
	"github.com/hupe1980/chunkflow/subset"
	"github.com/hupe1980/chunkflow/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingInput records how the decoder reads its chunk.
type countingInput struct {
	BytesInput
	readAll int
	ranges  [][2]int64
}

func (c *countingInput) ReadAll(ctx context.Context) ([]byte, bool, error) {
	c.readAll++
	return c.BytesInput.ReadAll(ctx)
}

func (c *countingInput) ReadRange(ctx context.Context, off, length int64) ([]byte, bool, error) {
	c.ranges = append(c.ranges, [2]int64{off, length})
	return c.BytesInput.ReadRange(ctx, off, length)
}

func window(t *testing.T, buf []byte, shape []uint64, elemSize int, s subset.ArraySubset) arena.Window {
	t.Helper()
	a, err := arena.New(buf, shape, elemSize)
	require.NoError(t, err)
	w, err := a.Window(s)
	require.NoError(t, err)
	return w
}

func TestBytesPartialDecodeReadsSpan(t *testing.T) {
	c := mustChain(t, `["bytes"]`, DefaultOptions())
	rep := mustRep(t, []uint64{4, 4}, dtype.Uint8)
	encoded, err := c.Encode(testutil.Iota(16, 0), rep)
	require.NoError(t, err)

	in := &countingInput{BytesInput: encoded}
	dec := c.PartialDecoder(in, rep)

	sub := subset.New(subset.Range{Start: 1, Stop: 3}, subset.Range{Start: 1, Stop: 3})
	buf := make([]byte, 4)
	require.NoError(t, dec.PartialDecodeInto(context.Background(), sub, window(t, buf, []uint64{2, 2}, 1, subset.Whole([]uint64{2, 2}))))

	assert.Equal(t, []byte{5, 6, 9, 10}, buf)
	assert.Equal(t, 0, in.readAll)
	assert.Equal(t, [][2]int64{{5, 6}}, in.ranges)
}

func TestBytesPartialDecodeSwaps(t *testing.T) {
	le, err := dtype.Parse("<u2")
	require.NoError(t, err)
	c := mustChain(t, `[{"name":"bytes","configuration":{"endian":"big"}}]`, DefaultOptions())
	rep := mustRep(t, []uint64{3}, le)

	encoded, err := c.Encode([]byte{1, 0, 2, 0, 3, 0}, rep)
	require.NoError(t, err)

	buf := make([]byte, 4)
	dec := c.PartialDecoder(BytesInput(encoded), rep)
	require.NoError(t, dec.PartialDecodeInto(context.Background(), subset.New(subset.Range{Start: 1, Stop: 3}), window(t, buf, []uint64{2}, 2, subset.Whole([]uint64{2}))))
	assert.Equal(t, []byte{2, 0, 3, 0}, buf)
}

func TestPartialDecodeAbsentFills(t *testing.T) {
	fill := dtype.NewFillValue([]byte{0xAB})
	rep, err := NewChunkRepresentation([]uint64{4}, dtype.Uint8, fill)
	require.NoError(t, err)

	for _, md := range []string{`["bytes"]`, `["zstd"]`} {
		c := mustChain(t, md, DefaultOptions())
		buf := make([]byte, 5)
		dec := c.PartialDecoder(BytesInput(nil), rep)
		require.NoError(t, dec.PartialDecodeInto(context.Background(), subset.New(subset.Range{Start: 1, Stop: 3}), window(t, buf, []uint64{5}, 1, subset.New(subset.Range{Start: 2, Stop: 4}))))
		assert.Equal(t, []byte{0, 0, 0xAB, 0xAB, 0}, buf, md)
	}
}

func TestCompressedPartialDecodeReadsOnce(t *testing.T) {
	c := mustChain(t, `["bytes", "gzip"]`, DefaultOptions())
	rep := mustRep(t, []uint64{6}, dtype.Uint8)
	encoded, err := c.Encode(testutil.Iota(6, 10), rep)
	require.NoError(t, err)

	in := &countingInput{BytesInput: encoded}
	dec := c.PartialDecoder(in, rep)

	buf := make([]byte, 2)
	w := window(t, buf, []uint64{2}, 1, subset.Whole([]uint64{2}))
	require.NoError(t, dec.PartialDecodeInto(context.Background(), subset.New(subset.Range{Start: 0, Stop: 2}), w))
	assert.Equal(t, []byte{10, 11}, buf)
	require.NoError(t, dec.PartialDecodeInto(context.Background(), subset.New(subset.Range{Start: 4, Stop: 6}), w))
	assert.Equal(t, []byte{14, 15}, buf)

	assert.Equal(t, 1, in.readAll)
	assert.Empty(t, in.ranges)
}

func TestPartialDecodeOutOfBounds(t *testing.T) {
	c := mustChain(t, `["bytes"]`, DefaultOptions())
	rep := mustRep(t, []uint64{4}, dtype.Uint8)
	dec := c.PartialDecoder(BytesInput(make([]byte, 4)), rep)

	buf := make([]byte, 4)
	err := dec.PartialDecodeInto(context.Background(), subset.New(subset.Range{Start: 2, Stop: 6}), window(t, buf, []uint64{4}, 1, subset.Whole([]uint64{4})))
	assert.ErrorIs(t, err, subset.ErrOutOfBounds)
}

func TestPartialDecodeTruncatedChunk(t *testing.T) {
	c := mustChain(t, `["bytes"]`, DefaultOptions())
	rep := mustRep(t, []uint64{8}, dtype.Uint8)
	dec := c.PartialDecoder(BytesInput([]byte{1, 2, 3}), rep)

	buf := make([]byte, 4)
	err := dec.PartialDecodeInto(context.Background(), subset.New(subset.Range{Start: 2, Stop: 6}), window(t, buf, []uint64{4}, 1, subset.Whole([]uint64{4})))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestStoreInput(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, "c/0", []byte("abcdef")))

	b, ok, err := StoreInput{Store: st, Key: "c/0"}.ReadRange(ctx, 2, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("cde"), b)

	_, ok, err = StoreInput{Store: st, Key: "c/1"}.ReadAll(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = StoreInput{Store: failingStore{}, Key: "c/0"}.ReadAll(ctx)
	assert.ErrorIs(t, err, ErrInputRead)
	assert.ErrorIs(t, err, errBackend)
}

var errBackend = errors.New("backend down")

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (failingStore) Set(context.Context, string, []byte) error   { return errBackend }
func (failingStore) Erase(context.Context, string) error         { return errBackend }
