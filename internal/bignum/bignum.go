// Package bignum implements the arbitrary-precision integer engine
// backing wispval.Bignum: construction, the four basic operations,
// shifts, two's-complement bitwise operators, comparison, and the
// normalisation that demotes a result back to a Fixnum whenever it fits.
//
// Every exported function here takes and returns wispval.Value rather
// than *wispval.Bignum directly, because the normal case for a small
// result is a Fixnum, not a Bignum, callers should never need to
// type-switch on whether an operation's inputs were already bignums.
package bignum

import (
	"math/bits"

	"golang.org/x/exp/constraints"

	"wisp/internal/condition"
	"wisp/internal/wispval"
)

// maxOrdered returns the greater of a and b.
func maxOrdered[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}

// Limbs are little-endian (least-significant first), Limb is a 64-bit
// machine word; the Knuth Algorithm D implementation in divmod.go relies
// on math/bits' 64-bit Mul/Div primitives, so this package assumes
// wispval.LimbBits == 64 (true on every platform this core targets).

// normalize strips high zero limbs from mag and returns the Value this
// magnitude and sign represent: a Fixnum if it fits, otherwise a
// normalised *wispval.Bignum. A zero magnitude always returns
// Fixnum(0), regardless of the sign passed in.
func normalize(sign int8, mag []wispval.Limb) wispval.Value {
	n := len(mag)
	for n > 0 && mag[n-1] == 0 {
		n--
	}
	mag = mag[:n]

	if n == 0 {
		return wispval.Fixnum(0)
	}

	if n == 1 && uint64(mag[0]) <= uint64(wispval.FixMax) {
		v := int64(mag[0])
		if sign < 0 {
			v = -v
		}
		return wispval.Fixnum(v)
	}

	return &wispval.Bignum{Sign: sign, Limbs: mag}
}

// toMag returns v's magnitude limbs and sign. v must be a Fixnum or
// *wispval.Bignum.
func toMag(v wispval.Value) (sign int8, mag []wispval.Limb) {
	switch n := v.(type) {
	case wispval.Fixnum:
		if n == 0 {
			return 1, nil
		}
		u := uint64(n)
		s := int8(1)
		if n < 0 {
			u = uint64(-n)
			s = -1
		}
		return s, []wispval.Limb{u}
	case *wispval.Bignum:
		return n.Sign, n.Limbs
	default:
		panic("bignum: not an integer Value")
	}
}

// cmpMag returns -1, 0, or 1 comparing the magnitudes a and b (both
// assumed already normalised: no high zero limbs beyond their declared
// length).
func cmpMag(a, b []wispval.Limb) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// addMag returns a+b.
func addMag(a, b []wispval.Limb) []wispval.Limb {
	n := maxOrdered(len(a), len(b))
	out := make([]wispval.Limb, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		var ai, bi uint64
		if i < len(a) {
			ai = uint64(a[i])
		}
		if i < len(b) {
			bi = uint64(b[i])
		}
		sum, c := bits.Add64(ai, bi, carry)
		out[i] = wispval.Limb(sum)
		carry = c
	}
	out[n] = wispval.Limb(carry)
	return out
}

// subMag returns a-b, assuming a >= b in magnitude.
func subMag(a, b []wispval.Limb) []wispval.Limb {
	out := make([]wispval.Limb, len(a))
	var borrow uint64
	for i := range a {
		var bi uint64
		if i < len(b) {
			bi = uint64(b[i])
		}
		diff, bo := bits.Sub64(uint64(a[i]), bi, borrow)
		out[i] = wispval.Limb(diff)
		borrow = bo
	}
	return out
}

// Add returns x+y.
func Add(x, y wispval.Value) wispval.Value {
	sx, mx := toMag(x)
	sy, my := toMag(y)
	if sx == sy {
		return normalize(sx, addMag(mx, my))
	}
	switch cmpMag(mx, my) {
	case 0:
		return wispval.Fixnum(0)
	case 1:
		return normalize(sx, subMag(mx, my))
	default:
		return normalize(sy, subMag(my, mx))
	}
}

// Neg returns -x.
func Neg(x wispval.Value) wispval.Value {
	s, m := toMag(x)
	if len(m) == 0 {
		return wispval.Fixnum(0)
	}
	return normalize(-s, append([]wispval.Limb(nil), m...))
}

// Sub returns x-y.
func Sub(x, y wispval.Value) wispval.Value {
	return Add(x, Neg(y))
}

// Mul returns x*y using schoolbook multiplication; component B permits
// (but does not require) a fast-multiply path above a size threshold,
// wired in Mul's Go file.
func Mul(x, y wispval.Value) wispval.Value {
	sx, mx := toMag(x)
	sy, my := toMag(y)
	if len(mx) == 0 || len(my) == 0 {
		return wispval.Fixnum(0)
	}
	return normalize(sx*sy, mulMag(mx, my))
}

func mulMag(a, b []wispval.Limb) []wispval.Limb {
	if len(a) >= fftThreshold && len(b) >= fftThreshold {
		return mulMagFFT(a, b)
	}
	out := make([]wispval.Limb, len(a)+len(b))
	for i, ai := range a {
		var carry uint64
		for j, bj := range b {
			hi, lo := bits.Mul64(uint64(ai), uint64(bj))
			lo, c0 := bits.Add64(lo, uint64(out[i+j]), 0)
			lo, c1 := bits.Add64(lo, carry, 0)
			hi += c0 + c1
			out[i+j] = wispval.Limb(lo)
			carry = hi
		}
		out[i+len(b)] += wispval.Limb(carry)
	}
	return out
}

// Cmp returns -1, 0, or 1 comparing x and y as signed integers.
func Cmp(x, y wispval.Value) int {
	sx, mx := toMag(x)
	sy, my := toMag(y)
	zx, zy := len(mx) == 0, len(my) == 0
	if zx && zy {
		return 0
	}
	if zx {
		if sy > 0 {
			return -1
		}
		return 1
	}
	if zy {
		if sx > 0 {
			return 1
		}
		return -1
	}
	if sx != sy {
		if sx > sy {
			return 1
		}
		return -1
	}
	c := cmpMag(mx, my)
	if sx < 0 {
		return -c
	}
	return c
}

// IsZero reports whether v (a Fixnum or *Bignum) is zero.
func IsZero(v wispval.Value) bool {
	_, m := toMag(v)
	return len(m) == 0
}

// divByZeroError is the condition construction shared by every division
// entry point in this package.
func divByZeroError() error {
	return &unhandledDivByZero{condition.New(condition.TagDivByZero, "division by zero")}
}

type unhandledDivByZero struct {
	cond *wispval.SimpleCondition
}

func (e *unhandledDivByZero) Error() string { return e.cond.Message }

func (e *unhandledDivByZero) Condition() *wispval.SimpleCondition { return e.cond }
