package subset

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when a byte buffer does not match the
// shape it is supposed to hold.
var ErrLengthMismatch = errors.New("buffer length mismatch")

// ByteLen returns the byte size of a dense array of the given shape.
func ByteLen(shape []uint64, elemSize int) int {
	n := elemSize
	for _, e := range shape {
		n *= int(e)
	}
	return n
}

// ForEachRun calls fn for every contiguous byte run that s occupies inside
// a row-major array of the given shape. Runs are visited in ascending
// offset order. Trailing axes fully covered by s are merged into one run.
func ForEachRun(shape []uint64, s ArraySubset, elemSize int, fn func(off, n int)) error {
	if !s.InBounds(shape) {
		return fmt.Errorf("%w: subset %s in shape %v", ErrOutOfBounds, s, shape)
	}
	dims := len(shape)
	if dims == 0 {
		fn(0, elemSize)
		return nil
	}
	if s.IsEmpty() {
		return nil
	}

	strides := make([]int, dims)
	stride := elemSize
	for i := dims - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= int(shape[i])
	}

	// Axes [outer, dims) form a single contiguous run.
	outer := dims - 1
	runLen := int(s.ranges[outer].Len()) * strides[outer]
	for outer > 0 && s.ranges[outer].Len() == shape[outer] {
		outer--
		runLen *= int(s.ranges[outer].Len())
	}

	base := 0
	for i, r := range s.ranges {
		base += int(r.Start) * strides[i]
	}
	if outer == 0 {
		fn(base, runLen)
		return nil
	}

	idx := make([]uint64, outer)
	for {
		off := base
		for i, v := range idx {
			off += int(v) * strides[i]
		}
		fn(off, runLen)

		axis := outer - 1
		for axis >= 0 {
			idx[axis]++
			if idx[axis] < s.ranges[axis].Len() {
				break
			}
			idx[axis] = 0
			axis--
		}
		if axis < 0 {
			return nil
		}
	}
}

// Extract copies the elements of s out of src, a dense array of the given
// shape, into a new dense buffer shaped like s.
func Extract(src []byte, shape []uint64, s ArraySubset, elemSize int) ([]byte, error) {
	out := make([]byte, int(s.NumElements())*elemSize)
	if err := ExtractInto(out, src, shape, s, elemSize); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractInto is Extract with a caller supplied destination.
func ExtractInto(dst, src []byte, shape []uint64, s ArraySubset, elemSize int) error {
	if len(src) != ByteLen(shape, elemSize) {
		return fmt.Errorf("%w: source has %d bytes, shape %v needs %d", ErrLengthMismatch, len(src), shape, ByteLen(shape, elemSize))
	}
	if want := int(s.NumElements()) * elemSize; len(dst) != want {
		return fmt.Errorf("%w: destination has %d bytes, subset %s needs %d", ErrLengthMismatch, len(dst), s, want)
	}
	pos := 0
	return ForEachRun(shape, s, elemSize, func(off, n int) {
		pos += copy(dst[pos:pos+n], src[off:off+n])
	})
}

// Scatter writes src, a dense buffer shaped like s, into the region s of
// dst, a dense array of the given shape.
func Scatter(dst []byte, shape []uint64, s ArraySubset, src []byte, elemSize int) error {
	if len(dst) != ByteLen(shape, elemSize) {
		return fmt.Errorf("%w: destination has %d bytes, shape %v needs %d", ErrLengthMismatch, len(dst), shape, ByteLen(shape, elemSize))
	}
	if want := int(s.NumElements()) * elemSize; len(src) != want {
		return fmt.Errorf("%w: source has %d bytes, subset %s needs %d", ErrLengthMismatch, len(src), s, want)
	}
	pos := 0
	return ForEachRun(shape, s, elemSize, func(off, n int) {
		pos += copy(dst[off:off+n], src[pos:pos+n])
	})
}

// Fill writes pattern into every element of the region s of dst.
// The element size is len(pattern).
func Fill(dst []byte, shape []uint64, s ArraySubset, pattern []byte) error {
	elemSize := len(pattern)
	if elemSize == 0 {
		return fmt.Errorf("%w: empty fill pattern", ErrLengthMismatch)
	}
	if len(dst) != ByteLen(shape, elemSize) {
		return fmt.Errorf("%w: destination has %d bytes, shape %v needs %d", ErrLengthMismatch, len(dst), shape, ByteLen(shape, elemSize))
	}
	return ForEachRun(shape, s, elemSize, func(off, n int) {
		Repeat(dst[off:off+n], pattern)
	})
}

// Repeat tiles pattern over dst. len(dst) should be a multiple of
// len(pattern); a trailing partial copy is written otherwise.
func Repeat(dst, pattern []byte) {
	if len(dst) == 0 || len(pattern) == 0 {
		return
	}
	n := copy(dst, pattern)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}
