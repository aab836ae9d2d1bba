// Package numeric implements the generic dispatch across the five
// numeric kinds: arithmetic, comparison, rounding, gcd/expt, and
// exact/inexact coercion, following the contagion ladder
// fixnum ≺ bignum ≺ rational ≺ flonum ≺ compnum.
//
// Fixnum and *wispval.Bignum are treated as one level here ("exact
// integer") since package bignum already promotes and demotes between
// them transparently; every dispatch in this package only needs to
// distinguish exact integer, rational, flonum and compnum.
package numeric

import (
	"golang.org/x/exp/constraints"

	"wisp/internal/bignum"
	"wisp/internal/condition"
	"wisp/internal/wispval"
)

// maxOrdered returns the greater of a and b; Arith uses it to pick the
// higher of two contagion-ladder levels.
func maxOrdered[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}

// Op names a binary arithmetic operation for Arith.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

// level orders the contagion ladder; -1 means v is not a number.
func level(v wispval.Value) int {
	switch v.(type) {
	case wispval.Fixnum, *wispval.Bignum:
		return 0
	case *wispval.Rational:
		return 1
	case wispval.Flonum:
		return 2
	case *wispval.Compnum:
		return 3
	default:
		return -1
	}
}

func isExactZero(v wispval.Value) bool {
	n, ok := v.(wispval.Fixnum)
	return ok && n == 0
}

// Arith performs op on a and b, lifting the lower-level operand to the
// higher one's kind per the contagion ladder and returning the result
// at that higher kind, with two documented overrides: exact zero
// absorbs multiplication regardless of the other operand's kind, and
// exact-over-exact division always produces an exact rational rather
// than promoting through flonum.
func Arith(op Op, a, b wispval.Value) (wispval.Value, error) {
	la, lb := level(a), level(b)
	if la < 0 || lb < 0 {
		if fallback != nil {
			if v, handled, err := fallback(op, a, b); handled {
				return v, err
			}
		}
		return nil, domainError("arithmetic on a non-numeric value", a, b)
	}

	if op == OpMul && (isExactZero(a) || isExactZero(b)) {
		return wispval.Fixnum(0), nil
	}

	target := maxOrdered(la, lb)

	switch target {
	case 0:
		return arithInteger(op, a, b)
	case 1:
		return arithRational(op, a, b)
	case 2:
		return arithFlonum(op, a, b)
	default:
		return arithCompnum(op, a, b)
	}
}

func arithInteger(op Op, a, b wispval.Value) (wispval.Value, error) {
	switch op {
	case OpAdd:
		return bignum.Add(a, b), nil
	case OpSub:
		return bignum.Sub(a, b), nil
	case OpMul:
		return bignum.Mul(a, b), nil
	case OpDiv:
		if bignum.IsZero(b) {
			return nil, divByZeroError()
		}
		return MakeRational(a, b)
	default:
		return nil, domainError("unknown arithmetic operation")
	}
}

func domainError(msg string, irritants ...wispval.Value) error {
	return &conditionError{condition.New(condition.TagDomain, msg, irritants...)}
}

func divByZeroError() error {
	return &conditionError{condition.New(condition.TagDivByZero, "division by zero")}
}

func implLimitError(msg string) error {
	return &conditionError{condition.New(condition.TagNumberImplLim, msg)}
}

type conditionError struct {
	cond *wispval.SimpleCondition
}

func (e *conditionError) Error() string { return e.cond.Message }

func (e *conditionError) Condition() *wispval.SimpleCondition { return e.cond }

// FallbackFunc handles an Arith call where at least one operand is not
// one of the five numeric kinds, mirroring the legacy object-+/object--
// generic-dispatch protocol without committing to any specific host
// Scheme's wire format (no spec exists to match byte-for-byte). handled
// is false when the fallback declines, in which case Arith reports its
// usual domain error.
type FallbackFunc func(op Op, a, b wispval.Value) (v wispval.Value, handled bool, err error)

var fallback FallbackFunc

// RegisterFallback installs f as the arithmetic fallback. A nil f
// disables fallback dispatch.
func RegisterFallback(f FallbackFunc) {
	fallback = f
}
