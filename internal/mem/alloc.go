// Package mem allocates byte buffers aligned for vectorized consumers.
package mem

import "unsafe"

// Alignment is the start address alignment of AllocAligned buffers.
const Alignment = 64

// AllocAligned returns a zeroed slice of size bytes whose first byte sits
// on an Alignment boundary.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return []byte{}
	}
	buf := make([]byte, size+Alignment-1)
	off := int(-uintptr(unsafe.Pointer(&buf[0])) & (Alignment - 1)) //nolint:gosec // address arithmetic only
	return buf[off : off+size : off+size]
}

// IsAligned reports whether b starts on an Alignment boundary.
func IsAligned(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))&(Alignment-1) == 0 //nolint:gosec // address arithmetic only
}
