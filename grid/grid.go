package grid

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/chunkflow/subset"
)

// ErrInvalidGrid is returned for chunk shapes that do not fit the array.
var ErrInvalidGrid = errors.New("invalid chunk grid")

// Regular is a grid of equally shaped chunks. Chunks on the upper edge may
// extend past the array.
type Regular struct {
	arrayShape []uint64
	chunkShape []uint64
	gridShape  []uint64
}

// NewRegular builds the grid for arrayShape split into chunkShape.
func NewRegular(arrayShape, chunkShape []uint64) (*Regular, error) {
	if len(arrayShape) != len(chunkShape) {
		return nil, fmt.Errorf("%w: array has %d axes, chunks have %d", ErrInvalidGrid, len(arrayShape), len(chunkShape))
	}
	gridShape := make([]uint64, len(chunkShape))
	for i, c := range chunkShape {
		if c == 0 {
			return nil, fmt.Errorf("%w: chunk axis %d is zero", ErrInvalidGrid, i)
		}
		gridShape[i] = (arrayShape[i] + c - 1) / c
	}
	return &Regular{
		arrayShape: append([]uint64(nil), arrayShape...),
		chunkShape: append([]uint64(nil), chunkShape...),
		gridShape:  gridShape,
	}, nil
}

// ArrayShape returns the shape of the array.
func (g *Regular) ArrayShape() []uint64 { return g.arrayShape }

// ChunkShape returns the shape of every chunk.
func (g *Regular) ChunkShape() []uint64 { return g.chunkShape }

// GridShape returns the number of chunks along each axis.
func (g *Regular) GridShape() []uint64 { return g.gridShape }

// NumChunks returns the number of chunks in the grid.
func (g *Regular) NumChunks() uint64 {
	n := uint64(1)
	for _, s := range g.gridShape {
		n *= s
	}
	return n
}

// ChunkRegion returns the array region covered by the chunk at coords,
// clipped to the array.
func (g *Regular) ChunkRegion(coords []uint64) (subset.ArraySubset, error) {
	if err := g.checkCoords(coords); err != nil {
		return subset.ArraySubset{}, err
	}
	ranges := make([]subset.Range, len(coords))
	for i, k := range coords {
		start := k * g.chunkShape[i]
		ranges[i] = subset.Range{Start: start, Stop: min(start+g.chunkShape[i], g.arrayShape[i])}
	}
	return subset.New(ranges...), nil
}

// LinearIndex returns the row-major index of the chunk at coords.
func (g *Regular) LinearIndex(coords []uint64) (uint64, error) {
	if err := g.checkCoords(coords); err != nil {
		return 0, err
	}
	var idx uint64
	for i, k := range coords {
		idx = idx*g.gridShape[i] + k
	}
	return idx, nil
}

// Coords is the inverse of LinearIndex.
func (g *Regular) Coords(idx uint64) ([]uint64, error) {
	if idx >= g.NumChunks() {
		return nil, fmt.Errorf("%w: chunk %d of %d", subset.ErrOutOfBounds, idx, g.NumChunks())
	}
	coords := make([]uint64, len(g.gridShape))
	for i := len(g.gridShape) - 1; i >= 0; i-- {
		coords[i] = idx % g.gridShape[i]
		idx /= g.gridShape[i]
	}
	return coords, nil
}

func (g *Regular) checkCoords(coords []uint64) error {
	if len(coords) != len(g.gridShape) {
		return fmt.Errorf("%w: %d coordinates for a %d-d grid", subset.ErrOutOfBounds, len(coords), len(g.gridShape))
	}
	for i, k := range coords {
		if k >= g.gridShape[i] {
			return fmt.Errorf("%w: chunk coordinate %d on axis %d of %d", subset.ErrOutOfBounds, k, i, g.gridShape[i])
		}
	}
	return nil
}

// Projection is the part of a selection held by one chunk.
type Projection struct {
	// Coords are the chunk's grid coordinates.
	Coords []uint64
	// ChunkSubset is the region within the chunk.
	ChunkSubset subset.ArraySubset
	// OutputSubset is the region within a dense buffer shaped like the
	// selection.
	OutputSubset subset.ArraySubset
}

// Project splits sel into per-chunk projections in row-major chunk order.
// An empty selection yields none.
func (g *Regular) Project(sel subset.ArraySubset) ([]Projection, error) {
	if !sel.InBounds(g.arrayShape) {
		return nil, fmt.Errorf("%w: selection %s in array of shape %v", subset.ErrOutOfBounds, sel, g.arrayShape)
	}
	if sel.IsEmpty() {
		return nil, nil
	}
	dims := len(g.chunkShape)
	ranges := sel.Ranges()

	// Chunk coordinate bounds [lo, hi) per axis.
	lo := make([]uint64, dims)
	hi := make([]uint64, dims)
	for i, r := range ranges {
		lo[i] = r.Start / g.chunkShape[i]
		hi[i] = (r.Stop + g.chunkShape[i] - 1) / g.chunkShape[i]
	}

	var projs []Projection
	coords := append([]uint64(nil), lo...)
	for {
		chunkRanges := make([]subset.Range, dims)
		outRanges := make([]subset.Range, dims)
		for i, k := range coords {
			origin := k * g.chunkShape[i]
			start := max(ranges[i].Start, origin)
			stop := min(ranges[i].Stop, origin+g.chunkShape[i])
			chunkRanges[i] = subset.Range{Start: start - origin, Stop: stop - origin}
			outRanges[i] = subset.Range{Start: start - ranges[i].Start, Stop: stop - ranges[i].Start}
		}
		projs = append(projs, Projection{
			Coords:       append([]uint64(nil), coords...),
			ChunkSubset:  subset.New(chunkRanges...),
			OutputSubset: subset.New(outRanges...),
		})

		axis := dims - 1
		for axis >= 0 {
			coords[axis]++
			if coords[axis] < hi[axis] {
				break
			}
			coords[axis] = lo[axis]
			axis--
		}
		if axis < 0 {
			return projs, nil
		}
	}
}

// Touched returns the linear indices of the chunks sel intersects.
func (g *Regular) Touched(sel subset.ArraySubset) (*roaring64.Bitmap, error) {
	projs, err := g.Project(sel)
	if err != nil {
		return nil, err
	}
	bm := roaring64.New()
	for _, p := range projs {
		idx, err := g.LinearIndex(p.Coords)
		if err != nil {
			return nil, err
		}
		bm.Add(idx)
	}
	return bm, nil
}
