package numeric

import (
	"math/big"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// bigRatOf builds the exact math/big.Rat for numer/denom, used wherever
// this package needs exact-rational machinery math/big already
// provides correctly (comparison against a flonum's exact binary value,
// or correctly-rounded rational-to-float64 conversion) rather than
// re-deriving it by hand.
func bigRatOf(numer, denom wispval.Value) *big.Rat {
	return new(big.Rat).SetFrac(bignum.ToBigInt(numer), bignum.ToBigInt(denom))
}

// exactToBigRat returns the exact value of v (a Fixnum, *Bignum or
// *Rational) as a math/big.Rat.
func exactToBigRat(v wispval.Value) *big.Rat {
	numer, denom := asFraction(v)
	return bigRatOf(numer, denom)
}

// bigRatFromValue returns the exact value of a Fixnum/*Bignum/*Rational/
// Flonum as a math/big.Rat; the Flonum case decodes its precise binary
// value rather than an approximation of its decimal text.
func bigRatFromValue(v wispval.Value) (*big.Rat, bool) {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum, *wispval.Rational:
		return exactToBigRat(v), true
	case wispval.Flonum:
		r := new(big.Rat)
		if r.SetFloat64(float64(n)) == nil {
			return nil, false // f is NaN or ±Inf: no exact rational value
		}
		return r, true
	default:
		return nil, false
	}
}

func ratToValue(r *big.Rat) (wispval.Value, error) {
	return MakeRational(bignum.FromBigInt(r.Num()), bignum.FromBigInt(r.Denom()))
}
