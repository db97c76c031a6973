package dtype

import "math"

// Float16Bits returns the IEEE 754 binary16 encoding of f, rounding to
// nearest with ties to even. Values beyond the float16 range become
// infinities and NaNs stay NaNs.
func Float16Bits(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp := int((b >> 23) & 0xff)
	mant := b & 0x7fffff

	if exp == 0xff {
		if mant == 0 {
			return sign | 0x7c00
		}
		return sign | 0x7e00 | uint16(mant>>13)
	}

	e := exp - 127 + 15
	switch {
	case e >= 0x1f:
		return sign | 0x7c00
	case e <= 0:
		// Subnormal half or zero. The implicit bit becomes explicit.
		if e < -10 {
			return sign
		}
		mant |= 0x800000
		shift := uint(14 - e)
		return sign | uint16(roundShift(mant, shift))
	}

	// A mantissa carry rolls into the exponent, which is the correct result
	// including the overflow to infinity.
	return sign | uint16(uint32(e)<<10+roundShift(mant, 13))
}

// Float16Value decodes an IEEE 754 binary16 value.
func Float16Value(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch {
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: m * 2^-24.
		v := float32(mant) / (1 << 24)
		if sign != 0 {
			v = -v
		}
		return v
	}
	return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
}

// roundShift shifts v right by n bits, rounding to nearest, ties to even.
func roundShift(v uint32, n uint) uint32 {
	q := v >> n
	rem := v & (1<<n - 1)
	half := uint32(1) << (n - 1)
	if rem > half || (rem == half && q&1 == 1) {
		q++
	}
	return q
}
