package arena

import (
	"errors"
	"fmt"

	"github.com/hupe1980/chunkflow/subset"
)

// ErrSize is returned when a buffer does not match the shape it claims.
var ErrSize = errors.New("arena: buffer size mismatch")

// Arena is a dense row-major buffer that work items write into or read
// from through Windows.
type Arena struct {
	data     []byte
	shape    []uint64
	elemSize int
}

// New wraps data, which must hold exactly shape elements of elemSize bytes.
func New(data []byte, shape []uint64, elemSize int) (*Arena, error) {
	if elemSize <= 0 {
		return nil, fmt.Errorf("%w: element size %d", ErrSize, elemSize)
	}
	if want := subset.ByteLen(shape, elemSize); len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes for shape %v of %d-byte elements, want %d", ErrSize, len(data), shape, elemSize, want)
	}
	return &Arena{data: data, shape: append([]uint64(nil), shape...), elemSize: elemSize}, nil
}

// Shape returns the arena's shape.
func (a *Arena) Shape() []uint64 { return a.shape }

// ElementSize returns the element width in bytes.
func (a *Arena) ElementSize() int { return a.elemSize }

// Len returns the arena size in bytes.
func (a *Arena) Len() int { return len(a.data) }

// Window returns the capability for region s.
func (a *Arena) Window(s subset.ArraySubset) (Window, error) {
	if !s.InBounds(a.shape) {
		return Window{}, fmt.Errorf("%w: window %s in arena of shape %v", subset.ErrOutOfBounds, s, a.shape)
	}
	return Window{a: a, sub: s}, nil
}

// Window is one region of an Arena.
type Window struct {
	a   *Arena
	sub subset.ArraySubset
}

// Subset returns the region covered by the window.
func (w Window) Subset() subset.ArraySubset { return w.sub }

// Shape returns the window's own shape.
func (w Window) Shape() []uint64 { return w.sub.Shape() }

// NumElements returns the number of elements in the window.
func (w Window) NumElements() uint64 { return w.sub.NumElements() }

// ElementSize returns the element width in bytes.
func (w Window) ElementSize() int { return w.a.elemSize }

// ByteLen returns the size of the window's dense representation.
func (w Window) ByteLen() int { return int(w.sub.NumElements()) * w.a.elemSize }

// Contiguous returns a direct view of the window when it occupies a single
// byte run of the arena.
func (w Window) Contiguous() ([]byte, bool) {
	var (
		view []byte
		runs int
	)
	_ = subset.ForEachRun(w.a.shape, w.sub, w.a.elemSize, func(off, n int) {
		runs++
		view = w.a.data[off : off+n]
	})
	if runs != 1 {
		return nil, false
	}
	return view, true
}

// Write copies src, a dense buffer shaped like the window, into the arena.
func (w Window) Write(src []byte) error {
	return subset.Scatter(w.a.data, w.a.shape, w.sub, src, w.a.elemSize)
}

// WriteFrom copies region from of src, a dense array of srcShape, into
// the window. Both regions must hold the same number of elements.
func (w Window) WriteFrom(src []byte, srcShape []uint64, from subset.ArraySubset) error {
	if from.NumElements() != w.sub.NumElements() {
		return fmt.Errorf("%w: copying %d elements into a window of %d", ErrSize, from.NumElements(), w.sub.NumElements())
	}
	if view, ok := w.Contiguous(); ok {
		return subset.ExtractInto(view, src, srcShape, from, w.a.elemSize)
	}
	dense, err := subset.Extract(src, srcShape, from, w.a.elemSize)
	if err != nil {
		return err
	}
	return w.Write(dense)
}

// Fill writes pattern, one element, into every element of the window.
func (w Window) Fill(pattern []byte) error {
	if len(pattern) != w.a.elemSize {
		return fmt.Errorf("%w: %d-byte fill for %d-byte elements", ErrSize, len(pattern), w.a.elemSize)
	}
	return subset.Fill(w.a.data, w.a.shape, w.sub, pattern)
}

// Read returns a dense copy of the window.
func (w Window) Read() ([]byte, error) {
	return subset.Extract(w.a.data, w.a.shape, w.sub, w.a.elemSize)
}

// ReadInto copies the window into dst, a dense buffer shaped like the window.
func (w Window) ReadInto(dst []byte) error {
	return subset.ExtractInto(dst, w.a.data, w.a.shape, w.sub, w.a.elemSize)
}
