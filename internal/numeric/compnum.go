package numeric

import "wisp/internal/wispval"

// toComplex128 converts any numeric Value to complex128, the
// representation every compnum-level operation in this package
// computes in: Go's native complex arithmetic already implements the
// rectangular algebra component C's compnum variant specifies.
func toComplex128(v wispval.Value) (complex128, error) {
	if c, ok := v.(*wispval.Compnum); ok {
		return complex(c.Re, c.Im), nil
	}
	f, err := ToFloat64(v)
	if err != nil {
		return 0, err
	}
	return complex(f, 0), nil
}

// collapseComplex returns c as a Flonum when its imaginary part is
// exactly zero, and as a *wispval.Compnum otherwise, the invariant
// wispval.Compnum documents (im == 0.0 is never represented as one).
func collapseComplex(c complex128) wispval.Value {
	if imag(c) == 0 {
		return wispval.Flonum(real(c))
	}
	return &wispval.Compnum{Re: real(c), Im: imag(c)}
}

func arithCompnum(op Op, a, b wispval.Value) (wispval.Value, error) {
	ca, err := toComplex128(a)
	if err != nil {
		return nil, err
	}
	cb, err := toComplex128(b)
	if err != nil {
		return nil, err
	}
	switch op {
	case OpAdd:
		return collapseComplex(ca + cb), nil
	case OpSub:
		return collapseComplex(ca - cb), nil
	case OpMul:
		return collapseComplex(ca * cb), nil
	case OpDiv:
		// Go's native complex division already produces the IEEE-correct
		// +-Inf/NaN components for a zero denominator, matching flonum
		// division's behaviour rather than raising division-by-zero.
		return collapseComplex(ca / cb), nil
	default:
		return nil, domainError("unknown arithmetic operation")
	}
}
