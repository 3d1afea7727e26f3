package dist

import "math"

// Float16 is an IEEE 754 binary16 value stored as its bit pattern.
// The library has no native half type, so half-precision outputs are
// produced and consumed through explicit bit conversion.
type Float16 uint16

// Float16FromFloat32 converts with round-to-nearest-even, saturating to
// infinity on overflow.
func Float16FromFloat32(f float32) Float16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp32 := int32(b >> 23 & 0xff)
	mant := b & 0x7fffff

	if exp32 == 0xff {
		if mant != 0 {
			return Float16(sign | 0x7e00)
		}
		return Float16(sign | 0x7c00)
	}

	exp := exp32 - 127 + 15
	switch {
	case exp >= 0x1f:
		return Float16(sign | 0x7c00)
	case exp <= 0:
		if exp < -10 {
			return Float16(sign)
		}
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		rem := mant & (1<<shift - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && half&1 == 1) {
			half++
		}
		return Float16(sign | half)
	default:
		half := uint16(uint32(exp)<<10 | mant>>13)
		rem := mant & 0x1fff
		// A carry out of the mantissa rolls into the exponent, which is
		// exactly the right rounding behavior.
		if rem > 0x1000 || (rem == 0x1000 && half&1 == 1) {
			half++
		}
		return Float16(sign | half)
	}
}

// Float32 expands the half back to single precision.
func (h Float16) Float32() float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h >> 10 & 0x1f)
	mant := uint32(h & 0x3ff)

	switch {
	case exp == 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		e := uint32(113)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		return math.Float32frombits(sign | e<<23 | (mant&0x3ff)<<13)
	case exp == 0x1f:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7f800000)
		}
		return math.Float32frombits(sign | 0x7fc00000)
	default:
		return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
	}
}

// halfUniform maps one 16-bit lane to a uniform value in (0, 1).
func halfUniform(v uint16) float64 {
	return (float64(v) + 0.5) * (1.0 / 65536.0)
}
