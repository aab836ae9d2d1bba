package numeric

import (
	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// MakeRational builds the reduced fraction numer/denom: divides both by
// their gcd, moves any negative sign onto the numerator, and collapses
// to a plain exact integer when the reduced denominator is one.
// denom == 0 is a division-by-zero error.
func MakeRational(numer, denom wispval.Value) (wispval.Value, error) {
	if bignum.IsZero(denom) {
		return nil, divByZeroError()
	}
	if bignum.Cmp(denom, wispval.Fixnum(0)) < 0 {
		numer = bignum.Neg(numer)
		denom = bignum.Neg(denom)
	}
	if bignum.IsZero(numer) {
		return wispval.Fixnum(0), nil
	}

	g := bignum.Gcd(numer, denom)
	if bignum.Cmp(g, wispval.Fixnum(1)) != 0 {
		var err error
		numer, _, err = bignum.DivMod(numer, g)
		if err != nil {
			return nil, err
		}
		denom, _, err = bignum.DivMod(denom, g)
		if err != nil {
			return nil, err
		}
	}

	if bignum.Cmp(denom, wispval.Fixnum(1)) == 0 {
		return numer, nil
	}
	return &wispval.Rational{Numer: numer, Denom: denom}, nil
}

// asFraction returns v's numerator and denominator, treating an exact
// integer as numer/1.
func asFraction(v wispval.Value) (numer, denom wispval.Value) {
	if r, ok := v.(*wispval.Rational); ok {
		return r.Numer, r.Denom
	}
	return v, wispval.Fixnum(1)
}

func arithRational(op Op, a, b wispval.Value) (wispval.Value, error) {
	an, ad := asFraction(a)
	bn, bd := asFraction(b)

	switch op {
	case OpAdd:
		return MakeRational(bignum.Add(bignum.Mul(an, bd), bignum.Mul(bn, ad)), bignum.Mul(ad, bd))
	case OpSub:
		return MakeRational(bignum.Sub(bignum.Mul(an, bd), bignum.Mul(bn, ad)), bignum.Mul(ad, bd))
	case OpMul:
		return MakeRational(bignum.Mul(an, bn), bignum.Mul(ad, bd))
	case OpDiv:
		if bignum.IsZero(bn) {
			return nil, divByZeroError()
		}
		return MakeRational(bignum.Mul(an, bd), bignum.Mul(ad, bn))
	default:
		return nil, domainError("unknown arithmetic operation")
	}
}
