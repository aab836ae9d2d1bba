package numeric

import (
	"math"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// RoundMode selects one of the four rounding rules component C defines.
type RoundMode int

const (
	RoundFloor RoundMode = iota
	RoundCeiling
	RoundTruncate
	RoundNearestEven
)

// Round rounds v to an integer under mode, preserving exactness:
// an exact result for an exact operand, a flonum result for a flonum
// operand. Exact integers round to themselves unconditionally.
func Round(mode RoundMode, v wispval.Value) (wispval.Value, error) {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return v, nil
	case *wispval.Rational:
		return roundRational(mode, n.Numer, n.Denom), nil
	case wispval.Flonum:
		return wispval.Flonum(roundFloat(mode, float64(n))), nil
	default:
		return nil, domainError("rounding applies only to reals", v)
	}
}

func roundFloat(mode RoundMode, f float64) float64 {
	switch mode {
	case RoundFloor:
		return math.Floor(f)
	case RoundCeiling:
		return math.Ceil(f)
	case RoundTruncate:
		return math.Trunc(f)
	default:
		return math.RoundToEven(f)
	}
}

// roundRational implements the halfway test from component C directly
// on numer/denom (denom > 0 by the Rational invariant): truncated
// quotient/remainder first, then the floor-division pair derived from
// it, then the mode's selection among {floorQ, floorQ+1}.
func roundRational(mode RoundMode, numer, denom wispval.Value) wispval.Value {
	q, r, _ := bignum.DivMod(numer, denom) // denom != 0 always holds for a Rational

	floorQ, floorR := q, r
	if bignum.Cmp(r, wispval.Fixnum(0)) < 0 {
		floorQ = bignum.Sub(q, wispval.Fixnum(1))
		floorR = bignum.Add(r, denom)
	}

	switch mode {
	case RoundFloor:
		return floorQ
	case RoundCeiling:
		if bignum.IsZero(floorR) {
			return floorQ
		}
		return bignum.Add(floorQ, wispval.Fixnum(1))
	case RoundTruncate:
		return q
	default: // RoundNearestEven
		twice := bignum.Mul(floorR, wispval.Fixnum(2))
		c := bignum.Cmp(twice, denom)
		switch {
		case c < 0:
			return floorQ
		case c > 0:
			return bignum.Add(floorQ, wispval.Fixnum(1))
		default:
			if isEven(floorQ) {
				return floorQ
			}
			return bignum.Add(floorQ, wispval.Fixnum(1))
		}
	}
}

func isEven(v wispval.Value) bool {
	_, r, _ := bignum.DivMod(v, wispval.Fixnum(2))
	return bignum.IsZero(r)
}
