package subset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		ext  uint64
		want Range
	}{
		{"index", Index(3), 10, Range{3, 4}},
		{"negative index", Index(-1), 10, Range{9, 10}},
		{"lowest negative index", Index(-10), 10, Range{0, 1}},
		{"full slice", SliceAll(), 7, Range{0, 7}},
		{"zero value is full slice", Selection{}, 7, Range{0, 7}},
		{"slice from", SliceFrom(2), 7, Range{2, 7}},
		{"slice to", SliceTo(4), 7, Range{0, 4}},
		{"negative bounds", SliceRange(-3, -1), 10, Range{7, 9}},
		{"stop clamps", SliceRange(2, 100), 10, Range{2, 10}},
		{"start clamps", SliceFrom(20), 10, Range{10, 10}},
		{"reversed is empty", SliceRange(6, 2), 10, Range{6, 6}},
		{"explicit unit step", SliceRange(1, 3).WithStep(1), 10, Range{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.sel, tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.Start, got.Stop)
			assert.LessOrEqual(t, got.Stop, tt.ext)
		})
	}
}

func TestNormalizeMatchesNegativeIndexing(t *testing.T) {
	for e := int64(1); e <= 8; e++ {
		for i := -e; i < e; i++ {
			got, err := Normalize(Index(i), uint64(e))
			require.NoError(t, err)
			want := uint64(((i % e) + e) % e)
			assert.Equal(t, Range{want, want + 1}, got, "extent %d index %d", e, i)
		}
		_, err := Normalize(Index(-e-1), uint64(e))
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = Normalize(Index(e), uint64(e))
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(SliceRange(0, 4).WithStep(2), 10)
	assert.ErrorIs(t, err, ErrUnsupportedSelection)

	_, err = Normalize(SliceFrom(-11), 10)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Normalize(SliceTo(-20), 10)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestFromSelections(t *testing.T) {
	s, err := FromSelections([]Selection{Index(1), SliceRange(2, 4)}, []uint64{3, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Dimensionality())
	assert.Equal(t, []uint64{1, 2, 0}, s.Start())
	assert.Equal(t, []uint64{1, 2, 6}, s.Shape())
	assert.Equal(t, uint64(12), s.NumElements())

	_, err = FromSelections([]Selection{Index(0), Index(0)}, []uint64{3})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	scalar, err := FromSelections(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, scalar.Dimensionality())
	assert.Equal(t, uint64(1), scalar.NumElements())
}

func TestSubsetRelations(t *testing.T) {
	a := New(Range{0, 4}, Range{0, 4})
	b := New(Range{2, 6}, Range{3, 5})
	c := New(Range{4, 6}, Range{0, 4})

	assert.True(t, a.Overlaps(b))
	assert.True(t, a.Contains(New(Range{1, 3}, Range{0, 4})))
	assert.False(t, a.Contains(b))
	assert.False(t, a.Contains(New(Range{0, 4})))
	assert.False(t, a.Overlaps(c))

	inter, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, []uint64{2, 3}, inter.Start())
	assert.Equal(t, []uint64{2, 1}, inter.Shape())

	rel, err := inter.Relative([]uint64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, "[0:2, 1:2]", rel.String())

	_, err = a.Relative([]uint64{1, 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.True(t, Whole([]uint64{4, 4}).IsWhole([]uint64{4, 4}))
	assert.False(t, b.IsWhole([]uint64{4, 4}))
	assert.False(t, b.InBounds([]uint64{4, 4}))
}

func TestSelectionsRoundTrip(t *testing.T) {
	s := New(Range{1, 3}, Range{0, 5})
	back, err := FromSelections(s.Selections(), []uint64{4, 5})
	require.NoError(t, err)
	assert.Equal(t, s, back)
}
