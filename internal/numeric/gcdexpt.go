package numeric

import (
	"math"
	"math/cmplx"
	"sync"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// Gcd returns the non-negative greatest common divisor of x and y.
// Defined on exact integers and on whole flonums (component C); a
// flonum operand makes the result inexact.
func Gcd(x, y wispval.Value) (wispval.Value, error) {
	if isExactInteger(x) && isExactInteger(y) {
		return bignum.Gcd(x, y), nil
	}
	fx, xOK := wholeFlonum(x)
	fy, yOK := wholeFlonum(y)
	if (xOK || isExactInteger(x)) && (yOK || isExactInteger(y)) {
		ex := x
		if xOK {
			ex = bignum.FromFloat64(float64(fx))
		}
		ey := y
		if yOK {
			ey = bignum.FromFloat64(float64(fy))
		}
		g := bignum.Gcd(ex, ey)
		f, err := ToFloat64(g)
		if err != nil {
			return nil, err
		}
		return wispval.Flonum(f), nil
	}
	return nil, domainError("gcd requires integers or whole flonums", x, y)
}

// pow10Cache below and the bignum.Ash shortcut in exptInt implement
// component C's "cached 10^n up to 340, 2^n via shift" fast paths for
// the common case of an exact-integer base raised to a non-negative
// exact-integer exponent.
var pow10Cache sync.Map // int64 -> wispval.Value

func cachedPow10(n int64) wispval.Value {
	if n < 0 || n > 340 {
		return nil
	}
	if v, ok := pow10Cache.Load(n); ok {
		return v.(wispval.Value)
	}
	v := bignum.Expt(wispval.Fixnum(10), uint64(n))
	pow10Cache.Store(n, v)
	return v
}

// Expt raises base to exp. An exact integer exponent dispatches to the
// exact-integer/rational repeated-squaring path (or the flonum/compnum
// power for an inexact base); any other exponent (non-integer, or a
// negative real base) goes through math/cmplx.Pow, which already
// implements the polar-form definition component C specifies.
func Expt(base, exp wispval.Value) (wispval.Value, error) {
	if _, ok := exp.(*wispval.Bignum); ok && bignum.BitLen(exp) >= 63 {
		return nil, implLimitError("expt exponent exceeds the supported range")
	}
	if n, ok := exactIntExponent(exp); ok {
		return exptInt(base, n)
	}

	bc, err := toComplex128(base)
	if err != nil {
		return nil, err
	}
	ec, err := toComplex128(exp)
	if err != nil {
		return nil, err
	}
	return collapseComplex(cmplx.Pow(bc, ec)), nil
}

func exactIntExponent(exp wispval.Value) (int64, bool) {
	switch n := exp.(type) {
	case wispval.Fixnum:
		return int64(n), true
	case *wispval.Bignum:
		// Expt already rejected BitLen(exp) >= 63 before calling this, so
		// the value always fits in an int64 here; Int64() (exact, unlike a
		// float64 round-trip) gives the precise exponent.
		return bignum.ToBigInt(exp).Int64(), true
	default:
		return 0, false
	}
}

func exptInt(base wispval.Value, n int64) (wispval.Value, error) {
	if n == 0 {
		return wispval.Fixnum(1), nil
	}
	neg := n < 0
	un := uint64(n)
	if neg {
		un = uint64(-n)
	}

	switch b := base.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		if bf, ok := base.(wispval.Fixnum); ok && bf == 2 && !neg {
			return bignum.Ash(wispval.Fixnum(1), int(un)), nil
		}
		if bf, ok := base.(wispval.Fixnum); ok && bf == 10 && !neg {
			if v := cachedPow10(int64(un)); v != nil {
				return v, nil
			}
		}
		pow := bignum.Expt(base, un)
		if !neg {
			return pow, nil
		}
		return MakeRational(wispval.Fixnum(1), pow)
	case *wispval.Rational:
		numerPow := bignum.Expt(b.Numer, un)
		denomPow := bignum.Expt(b.Denom, un)
		if neg {
			return MakeRational(denomPow, numerPow)
		}
		return MakeRational(numerPow, denomPow)
	case wispval.Flonum:
		return wispval.Flonum(math.Pow(float64(b), float64(n))), nil
	case *wispval.Compnum:
		return collapseComplex(cmplx.Pow(complex(b.Re, b.Im), complex(float64(n), 0))), nil
	default:
		return nil, domainError("expt applies only to numbers", base)
	}
}
