package numeric

import (
	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

func isExactInteger(v wispval.Value) bool {
	switch v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return true
	default:
		return false
	}
}

// wholeFlonum reports whether v is a Flonum with no fractional part.
func wholeFlonum(v wispval.Value) (wispval.Flonum, bool) {
	f, ok := v.(wispval.Flonum)
	return f, ok && wispval.IsInteger(f)
}

// Quotient, Remainder and Modulo extend bignum's exact-integer division
// family to whole flonums, per component C: "extended to flonums only
// when both operands are whole numbers". Any other kind combination is
// a domain error.
func Quotient(x, y wispval.Value) (wispval.Value, error) {
	return integerDivFamily(x, y, bignum.Quotient)
}

func Remainder(x, y wispval.Value) (wispval.Value, error) {
	return integerDivFamily(x, y, bignum.Remainder)
}

func Modulo(x, y wispval.Value) (wispval.Value, error) {
	return integerDivFamily(x, y, bignum.Modulo)
}

func integerDivFamily(x, y wispval.Value, op func(a, b wispval.Value) (wispval.Value, error)) (wispval.Value, error) {
	if isExactInteger(x) && isExactInteger(y) {
		return op(x, y)
	}
	fx, xOK := wholeFlonum(x)
	fy, yOK := wholeFlonum(y)
	if xOK && (yOK || isExactInteger(y)) {
		ex := bignum.FromFloat64(float64(fx))
		ey := y
		if yOK {
			ey = bignum.FromFloat64(float64(fy))
		}
		r, err := op(ex, ey)
		if err != nil {
			return nil, err
		}
		f, err := ToFloat64(r)
		if err != nil {
			return nil, err
		}
		return wispval.Flonum(f), nil
	}
	if yOK && isExactInteger(x) {
		ey := bignum.FromFloat64(float64(fy))
		r, err := op(x, ey)
		if err != nil {
			return nil, err
		}
		f, err := ToFloat64(r)
		if err != nil {
			return nil, err
		}
		return wispval.Flonum(f), nil
	}
	return nil, domainError("quotient/remainder/modulo require integers or whole flonums", x, y)
}

// Abs returns |v|.
func Abs(v wispval.Value) (wispval.Value, error) {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		if bignum.Cmp(v, wispval.Fixnum(0)) < 0 {
			return bignum.Neg(v), nil
		}
		return v, nil
	case *wispval.Rational:
		if bignum.Cmp(n.Numer, wispval.Fixnum(0)) < 0 {
			return &wispval.Rational{Numer: bignum.Neg(n.Numer), Denom: n.Denom}, nil
		}
		return v, nil
	case wispval.Flonum:
		return wispval.Flonum(absFloat(float64(n))), nil
	default:
		return nil, domainError("abs applies only to reals", v)
	}
}

func absFloat(f float64) float64 {
	if f < 0 || (f == 0 && isNegZero(f)) {
		return -f
	}
	return f
}

func isNegZero(f float64) bool {
	return f == 0 && 1/f < 0
}

// Sign returns -1, 0 or 1 for a negative, zero or positive real.
func Sign(v wispval.Value) (int, error) {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return bignum.Cmp(v, wispval.Fixnum(0)), nil
	case *wispval.Rational:
		return bignum.Cmp(n.Numer, wispval.Fixnum(0)), nil
	case wispval.Flonum:
		f := float64(n)
		switch {
		case f > 0:
			return 1, nil
		case f < 0:
			return -1, nil
		default:
			return 0, nil
		}
	default:
		return 0, domainError("sign applies only to reals", v)
	}
}
