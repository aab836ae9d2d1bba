package numeric

import (
	"math"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

func isNaN(v wispval.Value) bool {
	f, ok := v.(wispval.Flonum)
	return ok && math.IsNaN(float64(f))
}

// Equal reports numeric equality: exact-exact by exact comparison,
// anything involving a flonum decoded to its precise binary value
// first so, e.g., a bignum one bit away from a flonum's mantissa never
// compares equal by accident. A NaN operand makes Equal false
// unconditionally, including NaN against itself.
func Equal(a, b wispval.Value) (bool, error) {
	if isNaN(a) || isNaN(b) {
		return false, nil
	}
	if ca, ok := a.(*wispval.Compnum); ok {
		cb, err := toComplex128(b)
		if err != nil {
			return false, err
		}
		return complex(ca.Re, ca.Im) == cb, nil
	}
	if cb, ok := b.(*wispval.Compnum); ok {
		ca, err := toComplex128(a)
		if err != nil {
			return false, err
		}
		return ca == complex(cb.Re, cb.Im), nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Compare orders two reals (never compnums, which Equal handles
// separately since they have no total order): -1, 0 or 1. Mixed exact/
// flonum comparisons go through math/big.Rat so a large bignum compared
// against a flonum is never corrupted by an intermediate float64
// conversion losing precision.
func Compare(a, b wispval.Value) (int, error) {
	if isNaN(a) || isNaN(b) {
		return 0, domainError("NaN has no order", a, b)
	}
	la, lb := level(a), level(b)
	if la < 0 || lb < 0 {
		return 0, domainError("comparison of a non-numeric value", a, b)
	}
	if la == 3 || lb == 3 {
		return 0, domainError("compnum has no total order", a, b)
	}

	if la == 0 && lb == 0 {
		return bignum.Cmp(a, b), nil
	}
	if la <= 1 && lb <= 1 {
		ra, rb := exactToBigRat(a), exactToBigRat(b)
		return ra.Cmp(rb), nil
	}

	ra, ok := bigRatFromValue(a)
	if !ok {
		return 0, domainError("value has no exact rational decoding", a)
	}
	rb, ok := bigRatFromValue(b)
	if !ok {
		return 0, domainError("value has no exact rational decoding", b)
	}
	return ra.Cmp(rb), nil
}

// Less reports whether a < b. Unlike Compare, a NaN operand makes Less
// false rather than an error, matching IEEE ordering comparisons.
func Less(a, b wispval.Value) (bool, error) {
	if isNaN(a) || isNaN(b) {
		return false, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}
