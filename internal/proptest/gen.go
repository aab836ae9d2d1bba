package proptest

import (
	"math"
	"math/rand"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// genFixnum returns a random small exact integer, including negatives
// and zero.
func genFixnum(r *rand.Rand) wispval.Value {
	return wispval.Fixnum(r.Int63n(2_000_001) - 1_000_000)
}

// genBignum returns a random exact integer outside the fixnum-typical
// range, built by multiplying several random int64 limbs together so
// the magnitude routinely exceeds a single machine word.
func genBignum(r *rand.Rand) wispval.Value {
	v := bignum.FromInt64(r.Int63() + 1)
	for i := 0; i < 2+r.Intn(3); i++ {
		v = bignum.Mul(v, bignum.FromInt64(r.Int63()+1))
	}
	if r.Intn(2) == 0 {
		v = bignum.Neg(v)
	}
	return v
}

// genNonzeroFixnum is genFixnum with zero excluded, for use as a
// divisor.
func genNonzeroFixnum(r *rand.Rand) wispval.Value {
	n := r.Int63n(1_000_000) + 1
	if r.Intn(2) == 0 {
		n = -n
	}
	return wispval.Fixnum(n)
}

// genFiniteFlonum returns a random finite, non-NaN float64 spanning a
// wide range of magnitudes (via a random exponent) rather than a flat
// distribution, so both tiny and huge values get exercised.
func genFiniteFlonum(r *rand.Rand) wispval.Flonum {
	mantissa := r.Float64()*2 - 1
	exp := r.Intn(600) - 300
	f := mantissa * math.Pow(2, float64(exp))
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return wispval.Flonum(f)
}
