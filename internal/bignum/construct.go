package bignum

import (
	"math"
	"strings"

	"modernc.org/mathutil"

	"wisp/internal/condition"
	"wisp/internal/wispval"
)

// FromInt64 builds the Value for n: a Fixnum when n lies within the
// fixnum range, otherwise a *Bignum.
func FromInt64(n int64) wispval.Value {
	if wispval.Fits(n) {
		return wispval.Fixnum(n)
	}
	sign := int8(1)
	u := uint64(n)
	if n < 0 {
		sign = -1
		u = uint64(-n)
	}
	return normalize(sign, []wispval.Limb{wispval.Limb(u)})
}

// FromUint64 builds the Value for an unsigned machine integer.
func FromUint64(n uint64) wispval.Value {
	if n <= uint64(wispval.FixMax) {
		return wispval.Fixnum(int64(n))
	}
	return normalize(1, []wispval.Limb{wispval.Limb(n)})
}

// FromFloat64 truncates f toward zero into an exact integer, via the
// IEEE-754 exponent/mantissa decomposition rather than a decimal
// round-trip. f must be finite; NaN/Inf are a caller error, not a
// number/parse condition (they belong to a different numeric kind
// entirely and should never reach this constructor).
func FromFloat64(f float64) wispval.Value {
	if f == 0 {
		return wispval.Fixnum(0)
	}
	sign := int8(1)
	if f < 0 {
		sign = -1
		f = -f
	}
	f = math.Trunc(f)

	mantissa, exp := math.Frexp(f) // f == mantissa * 2^exp, 0.5 <= mantissa < 1
	m := uint64(mantissa * (1 << 53))
	shift := exp - 53

	mag := []wispval.Limb{wispval.Limb(m)}
	if shift > 0 {
		return normalize(sign, shiftMagLeft(mag, shift))
	}
	if shift < 0 {
		return normalize(sign, shiftMagRight(mag, -shift))
	}
	return normalize(sign, mag)
}

// FromString parses a string of digits in the given radix (2-36) into
// an exact integer, accumulating "big digits", the largest power of
// radix that fits in one limb, at a time rather than one digit at a
// time, so a several-thousand-digit literal does not cost one
// multiply-by-radix per character.
func FromString(s string, radix int) (wispval.Value, error) {
	sign := int8(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return nil, condition.New(condition.TagNumberParse, "empty integer literal")
	}

	chunkLen, chunkBase := bigDigitChunk(radix)

	var mag []wispval.Limb
	for len(s) > 0 {
		n := chunkLen
		if n > len(s) {
			n = len(s)
		}
		chunk := s[:n]
		s = s[n:]

		val, err := parseDigits(chunk, radix)
		if err != nil {
			return nil, err
		}
		base := chunkBase
		if n < chunkLen {
			base = 1
			for i := 0; i < n; i++ {
				base *= uint64(radix)
			}
		}
		mag = mulMag(mag, []wispval.Limb{wispval.Limb(base)})
		mag = addMag(mag, []wispval.Limb{wispval.Limb(val)})
	}

	return normalize(sign, mag), nil
}

// bigDigitChunk returns the largest number of base-radix digits whose
// value fits in a 64-bit limb, and that limb value (radix^chunkLen),
// the "big digit" component B's construction algorithm accumulates.
func bigDigitChunk(radix int) (chunkLen int, chunkBase uint64) {
	chunkBase = 1
	for {
		next := chunkBase * uint64(radix)
		if next/uint64(radix) != chunkBase { // overflow check
			return chunkLen, chunkBase
		}
		chunkBase = next
		chunkLen++
	}
}

func parseDigits(s string, radix int) (uint64, error) {
	var v uint64
	for _, c := range s {
		d, ok := digitValue(c)
		if !ok || d >= radix {
			return 0, condition.New(condition.TagNumberParse, "invalid digit in integer literal")
		}
		v = v*uint64(radix) + uint64(d)
	}
	return v, nil
}

func digitValue(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// BitLen returns the number of bits needed to represent |v|'s
// magnitude (0 for zero), using mathutil's bit-length helper on the
// single limb, or on the top limb plus 64 bits per lower limb.
func BitLen(v wispval.Value) int {
	_, m := toMag(v)
	n := len(m)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return mathutil.BitLenUint64(uint64(m[0]))
	}
	return (n-1)*64 + mathutil.BitLenUint64(uint64(m[n-1]))
}
