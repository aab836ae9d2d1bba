// Package numio implements the number reader and printer: the grammar
// of radix/exactness prefixes, signed reals, rationals and complex
// forms, and the printer that renders every numeric kind back to text.
//
// The decimal<->binary conversion at the core of both directions
// (Clinger's Algorithm R for parsing, Burger-Dybvig for printing) is
// delegated to strconv.ParseFloat/strconv.FormatFloat: both are
// documented as correctly-rounded shortest-round-trip implementations,
// which is the exact guarantee those two algorithms exist to provide,
// and no retrieved third-party library offers a decimal<->flonum
// primitive at all. What this package owns is the grammar around that
// core: radix/exactness prefixes, rational and complex syntax, and the
// fixed/scientific notation rules component D specifies.
package numio

import (
	"wisp/internal/numeric"
	"wisp/internal/wispval"
)

const (
	exactUnspecified = 0
	exactForced      = 1
	inexactForced    = -1
)

// Parse reads one number from the front of chars under the given
// default radix, returning (value, true, nil) on success. strict
// requires the number to consume every byte of chars; without it,
// trailing bytes are simply left unconsumed rather than failing, as a
// tokenizer that has already isolated one token would want. A false ok
// with a nil error means chars does not begin with number syntax at
// all (the caller should try another grammar, e.g. a symbol); a
// non-nil error means it looked like a number but was malformed.
func Parse(chars []byte, radix int, strict bool) (wispval.Value, bool, error) {
	s := chars
	exactness := exactUnspecified

prefixLoop:
	for len(s) >= 2 && s[0] == '#' {
		switch lowerByte(s[1]) {
		case 'b':
			radix = 2
		case 'o':
			radix = 8
		case 'd':
			radix = 10
		case 'x':
			radix = 16
		case 'e':
			exactness = exactForced
		case 'i':
			exactness = inexactForced
		default:
			break prefixLoop
		}
		s = s[2:]
	}

	v, rest, ok, expOutOfRange, err := parseComplex(s, radix)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	if strict && len(rest) != 0 {
		return nil, false, nil
	}

	switch exactness {
	case exactForced:
		if expOutOfRange {
			return nil, false, implLimitError("exponent out of range for an exact literal")
		}
		ev, err := numeric.ToExact(v)
		if err != nil {
			return nil, false, err
		}
		return ev, true, nil
	case inexactForced:
		iv, err := numeric.ToInexact(v)
		if err != nil {
			return nil, false, err
		}
		return iv, true, nil
	default:
		return v, true, nil
	}
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
