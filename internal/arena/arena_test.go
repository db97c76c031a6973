package arena

import (
	"sync"
	"testing"

	"github.com/hupe1980/chunkflow/subset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(make([]byte, 7), []uint64{2, 2}, 2)
	assert.ErrorIs(t, err, ErrSize)

	_, err = New(nil, nil, 0)
	assert.ErrorIs(t, err, ErrSize)

	a, err := New(make([]byte, 8), []uint64{2, 2}, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, a.Len())
	assert.Equal(t, []uint64{2, 2}, a.Shape())

	_, err = a.Window(subset.New(subset.Range{Start: 0, Stop: 3}, subset.Range{Start: 0, Stop: 1}))
	assert.ErrorIs(t, err, subset.ErrOutOfBounds)
}

func TestWindow_WriteRead(t *testing.T) {
	buf := make([]byte, 16)
	a, err := New(buf, []uint64{4, 4}, 1)
	require.NoError(t, err)

	w, err := a.Window(subset.New(subset.Range{Start: 1, Stop: 3}, subset.Range{Start: 2, Stop: 4}))
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 2}, w.Shape())
	assert.Equal(t, 4, w.ByteLen())

	_, ok := w.Contiguous()
	assert.False(t, ok)

	require.NoError(t, w.Write([]byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2, 0, 0, 3, 4, 0, 0, 0, 0}, buf)

	got, err := w.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	dst := make([]byte, 4)
	require.NoError(t, w.ReadInto(dst))
	assert.Equal(t, got, dst)
}

func TestWindow_ContiguousAndWriteFrom(t *testing.T) {
	buf := make([]byte, 10)
	a, err := New(buf, []uint64{10}, 1)
	require.NoError(t, err)

	w, err := a.Window(subset.New(subset.Range{Start: 2, Stop: 5}))
	require.NoError(t, err)
	view, ok := w.Contiguous()
	require.True(t, ok)
	assert.Len(t, view, 3)

	src := []byte{10, 11, 12, 13, 14}
	require.NoError(t, w.WriteFrom(src, []uint64{5}, subset.New(subset.Range{Start: 1, Stop: 4})))
	assert.Equal(t, []byte{0, 0, 11, 12, 13, 0, 0, 0, 0, 0}, buf)

	err = w.WriteFrom(src, []uint64{5}, subset.New(subset.Range{Start: 0, Stop: 5}))
	assert.ErrorIs(t, err, ErrSize)

	// Non-contiguous destination goes through a dense copy.
	b2 := make([]byte, 4)
	a2, err := New(b2, []uint64{2, 2}, 1)
	require.NoError(t, err)
	col, err := a2.Window(subset.New(subset.Range{Start: 0, Stop: 2}, subset.Range{Start: 1, Stop: 2}))
	require.NoError(t, err)
	require.NoError(t, col.WriteFrom([]byte{7, 8, 9}, []uint64{3}, subset.New(subset.Range{Start: 1, Stop: 3})))
	assert.Equal(t, []byte{0, 8, 0, 9}, b2)
}

func TestWindow_Fill(t *testing.T) {
	buf := make([]byte, 12)
	a, err := New(buf, []uint64{3, 2}, 2)
	require.NoError(t, err)

	w, err := a.Window(subset.New(subset.Range{Start: 2, Stop: 3}, subset.Range{Start: 0, Stop: 2}))
	require.NoError(t, err)
	require.NoError(t, w.Fill([]byte{0xAA, 0xBB}))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xAA, 0xBB, 0xAA, 0xBB}, buf)

	assert.ErrorIs(t, w.Fill([]byte{1}), ErrSize)
}

func TestWindow_DisjointConcurrentWrites(t *testing.T) {
	const rows = 64
	buf := make([]byte, rows*8)
	a, err := New(buf, []uint64{rows, 8}, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for r := range rows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := a.Window(subset.New(subset.Range{Start: uint64(r), Stop: uint64(r + 1)}, subset.Range{Start: 0, Stop: 8}))
			assert.NoError(t, err)
			assert.NoError(t, w.Fill([]byte{byte(r)}))
		}()
	}
	wg.Wait()

	for r := range rows {
		for c := range 8 {
			assert.Equal(t, byte(r), buf[r*8+c])
		}
	}
}
