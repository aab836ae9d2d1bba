package numeric

import (
	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// ToFloat64 converts any exact or inexact real (not compnum) to its
// nearest float64, using bignum's correctly-rounded integer conversion
// and a big.Rat-equivalent division for rationals.
func ToFloat64(v wispval.Value) (float64, error) {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return bignum.ToFloat64(v), nil
	case *wispval.Rational:
		return ratioToFloat64(n.Numer, n.Denom), nil
	case wispval.Flonum:
		return float64(n), nil
	default:
		return 0, domainError("not a real number", v)
	}
}

// ratioToFloat64 divides two exact integers as float64, routed through
// math/big.Rat so the conversion is correctly rounded rather than
// losing precision to an intermediate float64 division of two already-
// rounded floats.
func ratioToFloat64(numer, denom wispval.Value) float64 {
	r := bigRatOf(numer, denom)
	f, _ := r.Float64()
	return f
}

func arithFlonum(op Op, a, b wispval.Value) (wispval.Value, error) {
	fa, err := ToFloat64(a)
	if err != nil {
		return nil, err
	}
	fb, err := ToFloat64(b)
	if err != nil {
		return nil, err
	}
	switch op {
	case OpAdd:
		return wispval.Flonum(fa + fb), nil
	case OpSub:
		return wispval.Flonum(fa - fb), nil
	case OpMul:
		return wispval.Flonum(fa * fb), nil
	case OpDiv:
		return wispval.Flonum(fa / fb), nil
	default:
		return nil, domainError("unknown arithmetic operation")
	}
}
