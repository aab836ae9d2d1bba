package bignum

import (
	"math/big"

	"wisp/internal/wispval"
)

// ToBigInt converts an exact integer Value to a math/big.Int, for
// interop with stdlib algorithms (correctly-rounded float conversion,
// rational decoding) that only accept that representation.
func ToBigInt(v wispval.Value) *big.Int {
	sign, mag := toMag(v)
	z := new(big.Int).SetBits(limbsToWords(mag))
	if sign < 0 {
		z.Neg(z)
	}
	return z
}

// FromBigInt is ToBigInt's inverse.
func FromBigInt(z *big.Int) wispval.Value {
	sign := int8(1)
	if z.Sign() < 0 {
		sign = -1
	}
	return normalize(sign, wordsToLimbs(z.Bits()))
}

// ToFloat64 returns the correctly-rounded float64 nearest v's exact
// value (ties to even, matching IEEE-754 conversion).
func ToFloat64(v wispval.Value) float64 {
	if f, ok := v.(wispval.Fixnum); ok {
		return float64(f)
	}
	f, _ := new(big.Float).SetInt(ToBigInt(v)).Float64()
	return f
}
