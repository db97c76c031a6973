package dtype

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// FillValue is the byte pattern of one element that represents "no data".
type FillValue struct {
	b []byte
}

// NewFillValue wraps raw element bytes. The slice is copied.
func NewFillValue(b []byte) FillValue {
	c := make([]byte, len(b))
	copy(c, b)
	return FillValue{b: c}
}

// NewFillValueFor validates the width of b against dt.
func NewFillValueFor(dt DataType, b []byte) (FillValue, error) {
	if len(b) != dt.Size() {
		return FillValue{}, fmt.Errorf("%w: %d bytes for %s (%d bytes)", ErrInvalidFillValue, len(b), dt, dt.Size())
	}
	return NewFillValue(b), nil
}

// ZeroFill returns the all-zero fill value of dt.
func ZeroFill(dt DataType) FillValue {
	return FillValue{b: make([]byte, dt.Size())}
}

// Float64Fill encodes v as a fill value of the float type dt, in dt's
// byte order (native when dt does not specify one).
func Float64Fill(dt DataType, v float64) (FillValue, error) {
	if dt.Kind() != KindFloat {
		return FillValue{}, fmt.Errorf("%w: float fill for %s", ErrInvalidFillValue, dt)
	}
	var order binary.ByteOrder = binary.NativeEndian
	switch dt.ByteOrder() {
	case BOLittleEndian:
		order = binary.LittleEndian
	case BOBigEndian:
		order = binary.BigEndian
	}
	b := make([]byte, dt.Size())
	switch dt.Size() {
	case 2:
		order.PutUint16(b, Float16Bits(float32(v)))
	case 4:
		order.PutUint32(b, math.Float32bits(float32(v)))
	case 8:
		order.PutUint64(b, math.Float64bits(v))
	default:
		return FillValue{}, fmt.Errorf("%w: float fill for %s", ErrInvalidFillValue, dt)
	}
	return FillValue{b: b}, nil
}

// Bytes returns the element bytes. Callers must not modify them.
func (f FillValue) Bytes() []byte { return f.b }

// Size returns the width in bytes.
func (f FillValue) Size() int { return len(f.b) }

// Equal reports whether b is exactly one element equal to f.
func (f FillValue) Equal(b []byte) bool { return bytes.Equal(f.b, b) }

// IsFill reports whether every element of buf equals f.
// An empty buffer is not considered a fill.
func (f FillValue) IsFill(buf []byte) bool {
	n := len(f.b)
	if n == 0 || len(buf) == 0 || len(buf)%n != 0 {
		return false
	}
	if !bytes.Equal(buf[:n], f.b) {
		return false
	}
	// buf is n-periodic iff it equals itself shifted by n.
	return bytes.Equal(buf[n:], buf[:len(buf)-n])
}

// Repeat returns count copies of f laid out contiguously.
func (f FillValue) Repeat(count uint64) []byte {
	out := make([]byte, int(count)*len(f.b))
	f.FillInto(out)
	return out
}

// FillInto tiles f over dst.
func (f FillValue) FillInto(dst []byte) {
	if len(dst) == 0 || len(f.b) == 0 {
		return
	}
	n := copy(dst, f.b)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}

func (f FillValue) String() string { return fmt.Sprintf("%x", f.b) }
