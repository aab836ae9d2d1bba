package bignum

import "wisp/internal/wispval"

// Quotient returns truncated x/y.
func Quotient(x, y wispval.Value) (wispval.Value, error) {
	q, _, err := DivMod(x, y)
	return q, err
}

// Remainder returns x - Quotient(x,y)*y; its sign follows x.
func Remainder(x, y wispval.Value) (wispval.Value, error) {
	_, r, err := DivMod(x, y)
	return r, err
}

// Modulo returns Remainder(x,y) adjusted by +y when non-zero and x, y
// have different signs; its sign follows y.
func Modulo(x, y wispval.Value) (wispval.Value, error) {
	r, err := Remainder(x, y)
	if err != nil {
		return nil, err
	}
	if IsZero(r) {
		return r, nil
	}
	rNeg := Cmp(r, wispval.Fixnum(0)) < 0
	yNeg := Cmp(y, wispval.Fixnum(0)) < 0
	if rNeg != yNeg {
		return Add(r, y), nil
	}
	return r, nil
}

// Gcd returns the non-negative greatest common divisor of x and y,
// using Euclid's algorithm. gcd(0, y) = |y|.
func Gcd(x, y wispval.Value) wispval.Value {
	x, y = absVal(x), absVal(y)
	for !IsZero(y) {
		_, r, _ := DivMod(x, y) // y != 0 here, so DivMod never errors
		x, y = y, r
	}
	return x
}

func absVal(x wispval.Value) wispval.Value {
	if Cmp(x, wispval.Fixnum(0)) < 0 {
		return Neg(x)
	}
	return x
}

// Expt raises the exact integer base to the non-negative integer
// exponent n via repeated squaring. Negative exponents and non-integer
// bases are the numeric tower's responsibility (they produce a
// Rational or Compnum respectively, outside this package's exact-integer
// scope).
func Expt(base wispval.Value, n uint64) wispval.Value {
	if n == 0 {
		return wispval.Fixnum(1)
	}
	result := wispval.Value(wispval.Fixnum(1))
	b := base
	for n > 0 {
		if n&1 == 1 {
			result = Mul(result, b)
		}
		b = Mul(b, b)
		n >>= 1
	}
	return result
}
