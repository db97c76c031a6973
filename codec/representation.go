package codec

import (
	"fmt"

	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/subset"
)

// ChunkRepresentation is the decoded form of one chunk: its shape, element
// type and fill value.
type ChunkRepresentation struct {
	shape    []uint64
	dataType dtype.DataType
	fill     dtype.FillValue
}

// NewChunkRepresentation validates and builds a representation. Every axis
// of shape must be positive; a zero-axis shape is a scalar chunk.
func NewChunkRepresentation(shape []uint64, dt dtype.DataType, fill dtype.FillValue) (ChunkRepresentation, error) {
	for i, n := range shape {
		if n == 0 {
			return ChunkRepresentation{}, fmt.Errorf("%w: axis %d of %v is zero", ErrInvalidChunkShape, i, shape)
		}
	}
	if !dt.IsValid() {
		return ChunkRepresentation{}, fmt.Errorf("%w: %q", dtype.ErrUnsupportedDataType, dt.Name())
	}
	if fill.Size() != dt.Size() {
		return ChunkRepresentation{}, fmt.Errorf("%w: %d bytes for %s (%d bytes)", dtype.ErrInvalidFillValue, fill.Size(), dt, dt.Size())
	}
	return ChunkRepresentation{
		shape:    append([]uint64(nil), shape...),
		dataType: dt,
		fill:     fill,
	}, nil
}

// Shape returns the chunk shape.
func (r ChunkRepresentation) Shape() []uint64 { return r.shape }

// DataType returns the element type.
func (r ChunkRepresentation) DataType() dtype.DataType { return r.dataType }

// FillValue returns the fill value.
func (r ChunkRepresentation) FillValue() dtype.FillValue { return r.fill }

// ElementSize returns the element width in bytes.
func (r ChunkRepresentation) ElementSize() int { return r.dataType.Size() }

// NumElements returns the number of elements in the chunk.
func (r ChunkRepresentation) NumElements() uint64 {
	n := uint64(1)
	for _, s := range r.shape {
		n *= s
	}
	return n
}

// ByteLen returns the size of the decoded chunk.
func (r ChunkRepresentation) ByteLen() int { return subset.ByteLen(r.shape, r.dataType.Size()) }

// Whole returns the subset covering the entire chunk.
func (r ChunkRepresentation) Whole() subset.ArraySubset { return subset.Whole(r.shape) }

// IsFill reports whether a decoded chunk consists only of the fill value.
func (r ChunkRepresentation) IsFill(decoded []byte) bool { return r.fill.IsFill(decoded) }

func (r ChunkRepresentation) checkLen(decoded []byte) error {
	if want := r.ByteLen(); len(decoded) != want {
		return fmt.Errorf("%w: %d bytes for chunk %v of %s, want %d", ErrInvalidChunkShape, len(decoded), r.shape, r.dataType, want)
	}
	return nil
}
