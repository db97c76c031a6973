package chunkflow

import (
	"fmt"

	"github.com/hupe1980/chunkflow/internal/mem"
	"github.com/hupe1980/chunkflow/subset"
)

// Buffer describes a caller-owned dense array region. The pipeline reads
// from or writes into Data in place and never retains it after a call.
type Buffer struct {
	// Data holds the elements in row-major (C) order.
	Data []byte

	// Shape is the array shape. An empty shape is a scalar.
	Shape []uint64

	// ElementSize is the element width in bytes. Zero takes the width of
	// the first chunk description's data type.
	ElementSize int

	// Strides are optional byte strides per axis. Nil means C order; any
	// other layout is rejected.
	Strides []int64
}

// NewBuffer returns a zeroed buffer for shape. Data starts on a 64-byte
// boundary.
func NewBuffer(shape []uint64, elemSize int) Buffer {
	return Buffer{
		Data:        mem.AllocAligned(subset.ByteLen(shape, elemSize)),
		Shape:       append([]uint64(nil), shape...),
		ElementSize: elemSize,
	}
}

// checkContiguous rejects strides other than C order. Axes of extent 1
// may carry any stride.
func (b Buffer) checkContiguous(elemSize int) error {
	if b.Strides == nil {
		return nil
	}
	if len(b.Strides) != len(b.Shape) {
		return fmt.Errorf("%w: %d strides for %d axes", ErrNonContiguousBuffer, len(b.Strides), len(b.Shape))
	}
	want := int64(elemSize)
	for i := len(b.Shape) - 1; i >= 0; i-- {
		if b.Shape[i] != 1 && b.Strides[i] != want {
			return fmt.Errorf("%w: stride %d on axis %d, want %d", ErrNonContiguousBuffer, b.Strides[i], i, want)
		}
		want *= int64(b.Shape[i])
	}
	return nil
}

func (b Buffer) checkSize(elemSize int) error {
	if elemSize <= 0 {
		return fmt.Errorf("%w: element size %d", ErrBufferSize, elemSize)
	}
	if want := subset.ByteLen(b.Shape, elemSize); len(b.Data) != want {
		return fmt.Errorf("%w: %d bytes for shape %v of %d-byte elements, want %d", ErrBufferSize, len(b.Data), b.Shape, elemSize, want)
	}
	return nil
}
