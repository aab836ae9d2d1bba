package numio

import (
	"errors"
	"math"
	"strconv"

	"wisp/internal/bignum"
	"wisp/internal/condition"
	"wisp/internal/numeric"
	"wisp/internal/wispval"
)

// implLimitExponent is the decimal exponent magnitude beyond which a
// literal's value sits outside float64's representable range (the
// largest finite float64 is a little under 1e309, the smallest
// subnormal a little over 1e-324); scanDecimal uses it to recognise an
// out-of-range exponent from the raw digits, independent of whatever
// strconv.ParseFloat collapses the literal to.
const implLimitExponent = 324

// parseComplex implements the outermost grammar layer: a real, a
// polar pair "real@real", a rectangular pair "real(+|-)ureal?i", or a
// pure imaginary "(+|-)ureal?i" with no real part.
func parseComplex(s []byte, radix int) (wispval.Value, []byte, bool, bool, error) {
	re, rest, ok, expOOR, err := parseReal(s, radix)
	if err != nil {
		return nil, nil, false, false, err
	}
	if !ok {
		return parsePureImaginary(s, radix)
	}

	if len(rest) > 0 && rest[0] == '@' {
		angleOp, rest2, ok2, expOOR2, err2 := parseReal(rest[1:], radix)
		if err2 != nil {
			return nil, nil, false, false, err2
		}
		if !ok2 {
			return nil, nil, false, false, nil
		}
		mag, err := numeric.ToFloat64(re)
		if err != nil {
			return nil, nil, false, false, err
		}
		ang, err := numeric.ToFloat64(angleOp)
		if err != nil {
			return nil, nil, false, false, err
		}
		return collapseComplex(mag*math.Cos(ang), mag*math.Sin(ang)), rest2, true, expOOR || expOOR2, nil
	}

	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		imag, rest2, ok2, expOOR2, err2 := parseImaginaryTail(rest, radix)
		if err2 != nil {
			return nil, nil, false, false, err2
		}
		if !ok2 {
			return re, rest, true, expOOR, nil
		}
		reF, err := numeric.ToFloat64(re)
		if err != nil {
			return nil, nil, false, false, err
		}
		imF, err := numeric.ToFloat64(imag)
		if err != nil {
			return nil, nil, false, false, err
		}
		return collapseComplex(reF, imF), rest2, true, expOOR || expOOR2, nil
	}

	return re, rest, true, expOOR, nil
}

// parsePureImaginary handles "(+|-)ureal?i" when no real part precedes it.
func parsePureImaginary(s []byte, radix int) (wispval.Value, []byte, bool, bool, error) {
	if len(s) == 0 || (s[0] != '+' && s[0] != '-') {
		return nil, nil, false, false, nil
	}
	imag, rest, ok, expOOR, err := parseImaginaryTail(s, radix)
	if err != nil {
		return nil, nil, false, false, err
	}
	if !ok {
		return nil, nil, false, false, nil
	}
	imF, err := numeric.ToFloat64(imag)
	if err != nil {
		return nil, nil, false, false, err
	}
	return collapseComplex(0, imF), rest, true, expOOR, nil
}

// parseImaginaryTail parses "(+|-)ureal?i" starting at the sign,
// returning the signed imaginary part and whatever follows "i".
func parseImaginaryTail(s []byte, radix int) (wispval.Value, []byte, bool, bool, error) {
	sign := s[0]
	rest := s[1:]

	if len(rest) > 0 && lowerByte(rest[0]) == 'i' {
		v := wispval.Value(wispval.Fixnum(1))
		if sign == '-' {
			v = negateValue(v)
		}
		return v, rest[1:], true, false, nil
	}

	v, rest2, ok, expOOR, err := parseUReal(rest, radix)
	if err != nil {
		return nil, nil, false, false, err
	}
	if !ok || len(rest2) == 0 || lowerByte(rest2[0]) != 'i' {
		return nil, nil, false, false, nil
	}
	if sign == '-' {
		v = negateValue(v)
	}
	return v, rest2[1:], true, expOOR, nil
}

func collapseComplex(re, im float64) wispval.Value {
	if im == 0 {
		return wispval.Flonum(re)
	}
	return &wispval.Compnum{Re: re, Im: im}
}

func negateValue(v wispval.Value) wispval.Value {
	r, _ := numeric.Arith(numeric.OpSub, wispval.Fixnum(0), v)
	return r
}

// parseReal parses an optionally-signed real: a special value
// (+inf.0/-inf.0/+nan.0), or a signed ureal.
func parseReal(s []byte, radix int) (wispval.Value, []byte, bool, bool, error) {
	sign := byte(0)
	rest := s
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		sign = rest[0]
		rest = rest[1:]
		if v, after, ok := matchSpecial(rest); ok {
			if sign == '-' {
				v = wispval.Flonum(-float64(v.(wispval.Flonum)))
			}
			return v, after, true, false, nil
		}
	}

	v, rest2, ok, expOOR, err := parseUReal(rest, radix)
	if err != nil {
		return nil, nil, false, false, err
	}
	if !ok {
		return nil, nil, false, false, nil
	}
	if sign == '-' {
		v = negateValue(v)
	}
	return v, rest2, true, expOOR, nil
}

func matchSpecial(s []byte) (wispval.Value, []byte, bool) {
	if hasFoldPrefix(s, "inf.0") {
		return wispval.Flonum(math.Inf(1)), s[5:], true
	}
	if hasFoldPrefix(s, "nan.0") {
		return wispval.Flonum(math.NaN()), s[5:], true
	}
	return nil, s, false
}

func hasFoldPrefix(s []byte, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if lowerByte(s[i]) != prefix[i] {
			return false
		}
	}
	return true
}

// parseUReal parses an unsigned real: a rational "uint/uint", a
// decimal (radix 10 only: digits with a '.' and/or exponent), or a
// plain unsigned integer in the given radix.
func parseUReal(s []byte, radix int) (wispval.Value, []byte, bool, bool, error) {
	digits, rest, ok := scanDigits(s, radix)
	if ok && len(rest) > 0 && rest[0] == '/' {
		denomDigits, rest2, ok2 := scanDigits(rest[1:], radix)
		if !ok2 {
			return nil, nil, false, false, nil
		}
		n, err := bignum.FromString(string(digits), radix)
		if err != nil {
			return nil, nil, false, false, err
		}
		d, err := bignum.FromString(string(denomDigits), radix)
		if err != nil {
			return nil, nil, false, false, err
		}
		v, err := numeric.MakeRational(n, d)
		if err != nil {
			return nil, nil, false, false, err
		}
		return v, rest2, true, false, nil
	}

	if radix == 10 {
		if v, rest3, ok3, expOOR3, err3 := scanDecimal(s); ok3 || err3 != nil {
			return v, rest3, ok3, expOOR3, err3
		}
	}

	if !ok {
		return nil, nil, false, false, nil
	}
	v, err := bignum.FromString(string(digits), radix)
	if err != nil {
		return nil, nil, false, false, err
	}
	return v, rest, true, false, nil
}

// scanDecimal recognises the radix-10 decimal grammar: digit* '.'
// digit* and/or an exponent marker, with at least one digit somewhere.
// A pure integer (no '.' and no exponent) is left for the caller's
// plain-integer path, so this returns ok=false rather than an error.
//
// The third bool return reports whether the literal's raw exponent
// digits name a magnitude beyond implLimitExponent, independent of
// what the literal collapses to: by the time strconv.ParseFloat has
// run, "1e400" and "1e-400" are already indistinguishable from +inf.0
// and 0.0 respectively, so the #e dispatch in numio.go needs this
// signal captured here, from the digits themselves, to reject an exact
// reading of either.
func scanDecimal(s []byte) (wispval.Value, []byte, bool, bool, error) {
	i := 0
	intStart := i
	for i < len(s) && isDigit(s[i], 10) {
		i++
	}
	hasIntDigits := i > intStart

	hasDot := false
	hasFracDigits := false
	if i < len(s) && s[i] == '.' {
		hasDot = true
		i++
		fracStart := i
		for i < len(s) && isDigit(s[i], 10) {
			i++
		}
		hasFracDigits = i > fracStart
	}
	if !hasIntDigits && !hasFracDigits {
		return nil, nil, false, false, nil
	}

	hasExp := false
	expOutOfRange := false
	if i < len(s) && (lowerByte(s[i]) == 'e') {
		expStart := i + 1
		j := expStart
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		digStart := j
		for j < len(s) && isDigit(s[j], 10) {
			j++
		}
		if j > digStart {
			hasExp = true
			if e, err := strconv.Atoi(string(s[expStart:j])); err != nil || e >= implLimitExponent || e <= -implLimitExponent {
				expOutOfRange = true
			}
			i = j
		}
	}

	if !hasDot && !hasExp {
		return nil, nil, false, false, nil // plain integer: not this grammar's concern
	}

	text := string(s[:i])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return nil, nil, false, false, parseError("invalid decimal literal: " + text)
		}
		// ErrRange: f is already the correctly-rounded +-Inf (overflow)
		// or 0 (underflow) this literal names; not a parse failure.
	}
	return wispval.Flonum(f), s[i:], true, expOutOfRange, nil
}

type conditionError struct {
	cond *wispval.SimpleCondition
}

func (e *conditionError) Error() string { return e.cond.Message }

func (e *conditionError) Condition() *wispval.SimpleCondition { return e.cond }

func parseError(msg string) error {
	return &conditionError{condition.New(condition.TagNumberParse, msg)}
}

func implLimitError(msg string) error {
	return &conditionError{condition.New(condition.TagNumberImplLim, msg)}
}

func scanDigits(s []byte, radix int) ([]byte, []byte, bool) {
	i := 0
	for i < len(s) && isDigit(s[i], radix) {
		i++
	}
	if i == 0 {
		return nil, s, false
	}
	return s[:i], s[i:], true
}

func isDigit(c byte, radix int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < radix
}
