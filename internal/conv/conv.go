// Package conv converts between integer widths without silent truncation.
package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// Uint64ToInt converts v to int.
func Uint64ToInt(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("%w: %d does not fit int", ErrOverflow, v)
	}
	return int(v), nil
}

// IntToUint32 converts v to uint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// MulUint64 returns the product of vs.
func MulUint64(vs ...uint64) (uint64, error) {
	p := uint64(1)
	for _, v := range vs {
		if v != 0 && p > math.MaxUint64/v {
			return 0, fmt.Errorf("%w: product of %v", ErrOverflow, vs)
		}
		p *= v
	}
	return p, nil
}

// ByteLen returns the byte size of a dense array of shape with elemSize
// byte elements as an int.
func ByteLen(shape []uint64, elemSize int) (int, error) {
	if elemSize < 0 {
		return 0, fmt.Errorf("%w: negative element size %d", ErrOverflow, elemSize)
	}
	n, err := MulUint64(append([]uint64{uint64(elemSize)}, shape...)...)
	if err != nil {
		return 0, err
	}
	return Uint64ToInt(n)
}
