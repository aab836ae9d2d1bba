package bignum

import (
	"math/bits"

	"wisp/internal/wispval"
)

// DivMod returns the truncated quotient and remainder of x/y (both
// Fixnum or *Bignum), remainder sign following the dividend, per the
// truncated-division contract component B specifies. Division by zero
// returns divByZeroError().
func DivMod(x, y wispval.Value) (q, r wispval.Value, err error) {
	sx, mx := toMag(x)
	sy, my := toMag(y)
	if len(my) == 0 {
		return nil, nil, divByZeroError()
	}
	if len(mx) == 0 {
		return wispval.Fixnum(0), wispval.Fixnum(0), nil
	}
	if cmpMag(mx, my) < 0 {
		return wispval.Fixnum(0), normalize(sx, mx), nil
	}

	var qmag, rmag []wispval.Limb
	if len(my) == 1 {
		qmag, rmag = divModSmall(mx, uint64(my[0]))
	} else {
		qmag, rmag = divModKnuth(mx, my)
	}

	qSign := sx * sy
	return normalize(qSign, qmag), normalize(sx, rmag), nil
}

// divModSmall divides a multi-limb magnitude by a single limb, the
// common case (small exact-integer divisors in quotient/remainder/
// modulo/gcd) that does not need full Algorithm D.
func divModSmall(a []wispval.Limb, d uint64) (q []wispval.Limb, r []wispval.Limb) {
	q = make([]wispval.Limb, len(a))
	var rem uint64
	for i := len(a) - 1; i >= 0; i-- {
		hi, lo := rem, uint64(a[i])
		quo, newRem := bits.Div64(hi, lo, d)
		q[i] = wispval.Limb(quo)
		rem = newRem
	}
	if rem == 0 {
		return q, nil
	}
	return q, []wispval.Limb{wispval.Limb(rem)}
}

// divModKnuth implements Knuth's Algorithm D (TAOCP vol. 2, 4.3.1): a
// normalising shift so the divisor's top limb has its high bit set,
// per-digit trial-quotient estimation via math/bits.Div64 with the
// standard two-step correction, multiply-and-subtract, and an add-back
// step on the rare occasion the trial digit was one too large.
func divModKnuth(u, v []wispval.Limb) (q, r []wispval.Limb) {
	n := len(v)
	m := len(u) - n

	shift := bits.LeadingZeros64(uint64(v[n-1]))

	vn := shiftLeftWords(v, shift, n)
	un := shiftLeftWords(u, shift, len(u)+1)

	qout := make([]wispval.Limb, m+1)

	for j := m; j >= 0; j-- {
		var qhat, rhat uint64
		var rhatOverflowed bool
		top := uint64(un[j+n])
		if top == uint64(vn[n-1]) {
			qhat = ^uint64(0)
			rhat, rhatOverflowed = bits.Add64(uint64(un[j+n-1]), uint64(vn[n-1]), 0)
		} else {
			qhat, rhat = bits.Div64(top, uint64(un[j+n-1]), uint64(vn[n-1]))
		}

		for !rhatOverflowed && qhatTooLarge(qhat, rhat, vn, un, j, n) {
			qhat--
			rhat, rhatOverflowed = bits.Add64(rhat, uint64(vn[n-1]), 0)
		}

		borrow := mulSub(un[j:j+n+1], vn[:n], qhat)
		if borrow != 0 {
			qhat--
			addBack(un[j:j+n+1], vn[:n])
		}
		qout[j] = wispval.Limb(qhat)
	}

	rem := shiftRightWords(un[:n], shift)
	return qout, rem
}

// qhatTooLarge implements the second correction test from Algorithm D:
// qhat is rejected while qhat*v[n-2] > base*rhat + u[j+n-2].
func qhatTooLarge(qhat, rhat uint64, vn, un []wispval.Limb, j, n int) bool {
	if n < 2 {
		return false
	}
	hi, lo := bits.Mul64(qhat, uint64(vn[n-2]))
	if hi > rhat {
		return true
	}
	if hi < rhat {
		return false
	}
	return lo > uint64(un[j+n-2])
}

// mulSub computes un -= qhat*vn in place over the n+1 limbs of un,
// returning the final borrow (0 or 1).
func mulSub(un []wispval.Limb, vn []wispval.Limb, qhat uint64) uint64 {
	var borrow, carry uint64
	n := len(vn)
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(qhat, uint64(vn[i]))
		lo, c := bits.Add64(lo, carry, 0)
		hi += c
		d, b := bits.Sub64(uint64(un[i]), lo, borrow)
		un[i] = wispval.Limb(d)
		borrow = b
		carry = hi
	}
	d, b := bits.Sub64(uint64(un[n]), carry, borrow)
	un[n] = wispval.Limb(d)
	return b
}

// addBack undoes an over-subtraction: un += vn (n limbs), discarding the
// final carry, which by construction cancels the borrow mulSub returned.
func addBack(un []wispval.Limb, vn []wispval.Limb) {
	var carry uint64
	n := len(vn)
	for i := 0; i < n; i++ {
		s, c := bits.Add64(uint64(un[i]), uint64(vn[i]), carry)
		un[i] = wispval.Limb(s)
		carry = c
	}
	s, _ := bits.Add64(uint64(un[n]), 0, carry)
	un[n] = wispval.Limb(s)
}

// shiftLeftWords returns a size-limb copy of mag shifted left by shift
// bits (0 <= shift < 64), zero-extended to size limbs.
func shiftLeftWords(mag []wispval.Limb, shift int, size int) []wispval.Limb {
	out := make([]wispval.Limb, size)
	if shift == 0 {
		copy(out, mag)
		return out
	}
	var carry uint64
	for i, l := range mag {
		out[i] = wispval.Limb(uint64(l)<<shift | carry)
		carry = uint64(l) >> (64 - shift)
	}
	if len(mag) < size {
		out[len(mag)] = wispval.Limb(carry)
	}
	return out
}

// shiftRightWords shifts mag right by shift bits (0 <= shift < 64),
// returning a result of len(mag) limbs (high zero limbs are left for the
// caller's normalize to strip).
func shiftRightWords(mag []wispval.Limb, shift int) []wispval.Limb {
	out := make([]wispval.Limb, len(mag))
	if shift == 0 {
		copy(out, mag)
		return out
	}
	var carry uint64
	for i := len(mag) - 1; i >= 0; i-- {
		v := uint64(mag[i])
		out[i] = wispval.Limb(v>>shift | carry)
		carry = v << (64 - shift)
	}
	return out
}
