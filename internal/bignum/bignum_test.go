package bignum

import (
	"math/bits"
	"testing"

	"wisp/internal/wispval"
)

func big(sign int8, limbs ...wispval.Limb) wispval.Value {
	return normalize(sign, limbs)
}

func TestAddSubFixnumPath(t *testing.T) {
	x := wispval.Fixnum(40)
	y := wispval.Fixnum(2)
	if got := Add(x, y); got != wispval.Fixnum(42) {
		t.Fatalf("Add = %v, want 42", got)
	}
	if got := Sub(x, y); got != wispval.Fixnum(38) {
		t.Fatalf("Sub = %v, want 38", got)
	}
}

func TestAddPromotesToBignum(t *testing.T) {
	x := FromInt64(int64(wispval.FixMax))
	y := wispval.Fixnum(1)
	got := Add(x, y)
	if _, ok := got.(*wispval.Bignum); !ok {
		t.Fatalf("expected promotion to *Bignum, got %T (%v)", got, got)
	}
}

func TestAddSubDemotesBackToFixnum(t *testing.T) {
	x := big(1, 1<<62)
	y := Neg(x)
	got := Add(x, y)
	if got != wispval.Fixnum(0) {
		t.Fatalf("Add = %v, want 0", got)
	}
}

func TestMulMatchesRepeatedAdd(t *testing.T) {
	x := FromInt64(123456789)
	y := FromInt64(987654321)
	got := Mul(x, y)
	want := FromInt64(123456789 * 987654321)
	if Cmp(got, want) != 0 {
		t.Fatalf("Mul = %v, want %v", got, want)
	}
}

func TestDivModTruncatesTowardZero(t *testing.T) {
	cases := []struct{ x, y, q, r int64 }{
		{7, 2, 3, 1},
		{-7, 2, -3, -1},
		{7, -2, -3, 1},
		{-7, -2, 3, -1},
	}
	for _, c := range cases {
		q, r, err := DivMod(FromInt64(c.x), FromInt64(c.y))
		if err != nil {
			t.Fatal(err)
		}
		if Cmp(q, FromInt64(c.q)) != 0 || Cmp(r, FromInt64(c.r)) != 0 {
			t.Errorf("DivMod(%d,%d) = (%v,%v), want (%d,%d)", c.x, c.y, q, r, c.q, c.r)
		}
	}
}

func TestDivModByZero(t *testing.T) {
	_, _, err := DivMod(FromInt64(1), FromInt64(0))
	if err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestModuloSignFollowsDivisor(t *testing.T) {
	m, err := Modulo(FromInt64(-7), FromInt64(2))
	if err != nil {
		t.Fatal(err)
	}
	if Cmp(m, FromInt64(1)) != 0 {
		t.Fatalf("Modulo(-7,2) = %v, want 1", m)
	}
	m, err = Modulo(FromInt64(7), FromInt64(-2))
	if err != nil {
		t.Fatal(err)
	}
	if Cmp(m, FromInt64(-1)) != 0 {
		t.Fatalf("Modulo(7,-2) = %v, want -1", m)
	}
}

func TestGcd(t *testing.T) {
	got := Gcd(FromInt64(48), FromInt64(18))
	if Cmp(got, FromInt64(6)) != 0 {
		t.Fatalf("Gcd(48,18) = %v, want 6", got)
	}
	if Cmp(Gcd(FromInt64(0), FromInt64(-5)), FromInt64(5)) != 0 {
		t.Fatal("Gcd(0,-5) should be 5")
	}
}

func TestExptBySquaring(t *testing.T) {
	got := Expt(FromInt64(2), 100)
	// 2^100 has 101 bits, far outside fixnum range: confirm via bit length.
	if BitLen(got) != 101 {
		t.Fatalf("BitLen(2^100) = %d, want 101", BitLen(got))
	}
}

func TestAshLeftAndRight(t *testing.T) {
	x := FromInt64(5)
	if got := Ash(x, 3); Cmp(got, FromInt64(40)) != 0 {
		t.Fatalf("Ash(5,3) = %v, want 40", got)
	}
	if got := Ash(FromInt64(40), -3); Cmp(got, FromInt64(5)) != 0 {
		t.Fatalf("Ash(40,-3) = %v, want 5", got)
	}
}

func TestAshRightArithmeticOnNegative(t *testing.T) {
	// -5 >> 1 should floor toward -infinity: -3, not -2.
	got := Ash(FromInt64(-5), -1)
	if Cmp(got, FromInt64(-3)) != 0 {
		t.Fatalf("Ash(-5,-1) = %v, want -3", got)
	}
}

func TestBitwiseAndOrXorNot(t *testing.T) {
	a := FromInt64(0b1100)
	b := FromInt64(0b1010)
	if got := And(a, b); Cmp(got, FromInt64(0b1000)) != 0 {
		t.Fatalf("And = %v, want 8", got)
	}
	if got := Or(a, b); Cmp(got, FromInt64(0b1110)) != 0 {
		t.Fatalf("Or = %v, want 14", got)
	}
	if got := Xor(a, b); Cmp(got, FromInt64(0b0110)) != 0 {
		t.Fatalf("Xor = %v, want 6", got)
	}
	if got := Not(FromInt64(0)); Cmp(got, FromInt64(-1)) != 0 {
		t.Fatalf("Not(0) = %v, want -1", got)
	}
	if got := Not(FromInt64(-1)); Cmp(got, FromInt64(0)) != 0 {
		t.Fatalf("Not(-1) = %v, want 0", got)
	}
}

func TestFromStringRadix(t *testing.T) {
	got, err := FromString("ff", 16)
	if err != nil {
		t.Fatal(err)
	}
	if Cmp(got, FromInt64(255)) != 0 {
		t.Fatalf("FromString(ff,16) = %v, want 255", got)
	}

	got, err = FromString("-101", 2)
	if err != nil {
		t.Fatal(err)
	}
	if Cmp(got, FromInt64(-5)) != 0 {
		t.Fatalf("FromString(-101,2) = %v, want -5", got)
	}
}

func TestFromStringLargeDecimal(t *testing.T) {
	s := "123456789012345678901234567890"
	got, err := FromString(s, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*wispval.Bignum); !ok {
		t.Fatalf("expected *Bignum for a 30-digit literal, got %T", got)
	}
}

func TestFromFloat64Truncates(t *testing.T) {
	got := FromFloat64(3.9)
	if Cmp(got, FromInt64(3)) != 0 {
		t.Fatalf("FromFloat64(3.9) = %v, want 3", got)
	}
	got = FromFloat64(-3.9)
	if Cmp(got, FromInt64(-3)) != 0 {
		t.Fatalf("FromFloat64(-3.9) = %v, want -3", got)
	}
}

func TestMulFFTPathMatchesSchoolbook(t *testing.T) {
	// Force both operands above fftThreshold limbs.
	aLimbs := make([]wispval.Limb, fftThreshold+1)
	bLimbs := make([]wispval.Limb, fftThreshold+1)
	for i := range aLimbs {
		aLimbs[i] = wispval.Limb(i + 1)
		bLimbs[i] = wispval.Limb(2*i + 1)
	}
	viaFFT := mulMagFFT(aLimbs, bLimbs)
	out := make([]wispval.Limb, len(aLimbs)+len(bLimbs))
	viaSchoolbook := schoolbookMulForTest(aLimbs, bLimbs, out)

	if len(viaFFT) == 0 || len(viaSchoolbook) == 0 {
		t.Fatal("expected non-empty products")
	}
	gotFFT := normalize(1, viaFFT)
	gotSchool := normalize(1, viaSchoolbook)
	if Cmp(gotFFT, gotSchool) != 0 {
		t.Fatalf("FFT and schoolbook multiply disagree")
	}
}

// schoolbookMulForTest duplicates mulMag's algorithm directly (rather
// than calling mulMag, which would just dispatch back to mulMagFFT for
// operands this large) so the FFT path has an independent oracle.
func schoolbookMulForTest(a, b, out []wispval.Limb) []wispval.Limb {
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
