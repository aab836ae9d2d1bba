package numeric

import (
	"math"
	"math/big"

	"wisp/internal/bignum"
	"wisp/internal/wispval"
)

// ToExact converts v to the exact number (Fixnum, *Bignum or
// *Rational) nearest it. A finite flonum converts to the precise
// binary rational its IEEE-754 bits represent, via math/big.Rat. An
// infinite flonum has no exact value because its magnitude is, by
// construction, outside the range this implementation's floating-point
// representation can even name precisely, that is an implementation
// limit, not a domain error, which matters because `#e1e400` is reached
// this way (the literal overflows to +inf.0 before ToExact ever sees
// it). NaN has no exact value for an unrelated reason (it names no
// number at all), so it stays a domain error. Compnums have no exact
// form either (component A guarantees a compnum's imaginary part is
// always non-zero).
func ToExact(v wispval.Value) (wispval.Value, error) {
	switch n := v.(type) {
	case wispval.Fixnum, *wispval.Bignum, *wispval.Rational:
		return v, nil
	case wispval.Flonum:
		f := float64(n)
		if math.IsInf(f, 0) {
			return nil, implLimitError("flonum magnitude exceeds what can be converted to an exact value")
		}
		if math.IsNaN(f) {
			return nil, domainError("cannot convert NaN to exact", v)
		}
		r := new(big.Rat).SetFloat64(f)
		return ratToValue(r)
	default:
		return nil, domainError("value has no exact form", v)
	}
}

// ToInexact converts v to the nearest Flonum.
func ToInexact(v wispval.Value) (wispval.Value, error) {
	switch v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return wispval.Flonum(bignum.ToFloat64(v)), nil
	case *wispval.Rational:
		f, err := ToFloat64(v)
		if err != nil {
			return nil, err
		}
		return wispval.Flonum(f), nil
	case wispval.Flonum, *wispval.Compnum:
		return v, nil
	default:
		return nil, domainError("value is not a number", v)
	}
}
