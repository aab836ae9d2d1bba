package numio

import (
	"math"
	"testing"

	"wisp/internal/bignum"
	"wisp/internal/numeric"
	"wisp/internal/wispval"
)

func mustParse(t *testing.T, s string, radix int) wispval.Value {
	t.Helper()
	v, ok, err := Parse([]byte(s), radix, true)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	if !ok {
		t.Fatalf("Parse(%q): not recognised as a number", s)
	}
	return v
}

func TestParseIntegerRadixes(t *testing.T) {
	cases := []struct {
		text  string
		radix int
		want  int64
	}{
		{"42", 10, 42},
		{"-17", 10, -17},
		{"#xFF", 10, 255},
		{"#b1010", 10, 10},
		{"#o17", 10, 15},
		{"101", 2, 5},
	}
	for _, c := range cases {
		got := mustParse(t, c.text, c.radix)
		eq, err := numeric.Equal(got, bignum.FromInt64(c.want))
		if err != nil {
			t.Fatal(err)
		}
		if !eq {
			t.Errorf("Parse(%q, radix %d) = %v, want %d", c.text, c.radix, got, c.want)
		}
	}
}

func TestParseRational(t *testing.T) {
	got := mustParse(t, "3/4", 10)
	r, ok := got.(*wispval.Rational)
	if !ok {
		t.Fatalf("expected *Rational, got %T", got)
	}
	if bignum.Cmp(r.Numer, wispval.Fixnum(3)) != 0 || bignum.Cmp(r.Denom, wispval.Fixnum(4)) != 0 {
		t.Fatalf("got %v/%v, want 3/4", r.Numer, r.Denom)
	}
}

func TestParseDecimalAndExponent(t *testing.T) {
	got := mustParse(t, "3.25", 10)
	f, ok := got.(wispval.Flonum)
	if !ok || float64(f) != 3.25 {
		t.Fatalf("got %v, want 3.25", got)
	}

	got = mustParse(t, "1.5e2", 10)
	f, ok = got.(wispval.Flonum)
	if !ok || float64(f) != 150 {
		t.Fatalf("got %v, want 150.0", got)
	}
}

func TestParseSpecialReals(t *testing.T) {
	got := mustParse(t, "+inf.0", 10)
	f := got.(wispval.Flonum)
	if !math.IsInf(float64(f), 1) {
		t.Fatalf("got %v, want +inf", got)
	}

	got = mustParse(t, "-inf.0", 10)
	f = got.(wispval.Flonum)
	if !math.IsInf(float64(f), -1) {
		t.Fatalf("got %v, want -inf", got)
	}

	got = mustParse(t, "+nan.0", 10)
	f = got.(wispval.Flonum)
	if !math.IsNaN(float64(f)) {
		t.Fatalf("got %v, want nan", got)
	}
}

func TestParseRectangularComplex(t *testing.T) {
	got := mustParse(t, "3+4i", 10)
	c, ok := got.(*wispval.Compnum)
	if !ok {
		t.Fatalf("expected *Compnum, got %T", got)
	}
	if c.Re != 3 || c.Im != 4 {
		t.Fatalf("got %v, want 3+4i", got)
	}

	got = mustParse(t, "-i", 10)
	c, ok = got.(*wispval.Compnum)
	if !ok {
		t.Fatalf("expected *Compnum, got %T", got)
	}
	if c.Re != 0 || c.Im != -1 {
		t.Fatalf("got %v, want 0-1i", got)
	}
}

func TestParsePolarComplex(t *testing.T) {
	got := mustParse(t, "1@0", 10)
	f, ok := got.(wispval.Flonum)
	if !ok {
		t.Fatalf("expected collapse to Flonum for zero-angle polar, got %T", got)
	}
	if float64(f) < 0.999 || float64(f) > 1.001 {
		t.Fatalf("got %v, want ~1.0", got)
	}
}

func TestParseExactnessPrefixes(t *testing.T) {
	got := mustParse(t, "#e0.5", 10)
	r, ok := got.(*wispval.Rational)
	if !ok {
		t.Fatalf("expected *Rational from #e0.5, got %T", got)
	}
	if bignum.Cmp(r.Numer, wispval.Fixnum(1)) != 0 || bignum.Cmp(r.Denom, wispval.Fixnum(2)) != 0 {
		t.Fatalf("got %v/%v, want 1/2", r.Numer, r.Denom)
	}

	got = mustParse(t, "#i1/2", 10)
	f, ok := got.(wispval.Flonum)
	if !ok || float64(f) != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestParseRejectsNonNumber(t *testing.T) {
	_, ok, err := Parse([]byte("hello"), 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected \"hello\" to not parse as a number")
	}
}

func TestParseNonStrictLeavesTrailingBytes(t *testing.T) {
	v, rest, ok, _, err := parseComplex([]byte("42)"), 10)
	if err != nil || !ok {
		t.Fatalf("Parse: ok=%v err=%v", ok, err)
	}
	if string(rest) != ")" {
		t.Fatalf("rest = %q, want %q", rest, ")")
	}
	if v.(wispval.Fixnum) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestFormatIntegerRadixes(t *testing.T) {
	if got := Format(wispval.Fixnum(255), 16, false); got != "ff" {
		t.Fatalf("got %q, want \"ff\"", got)
	}
	if got := Format(wispval.Fixnum(255), 16, true); got != "FF" {
		t.Fatalf("got %q, want \"FF\"", got)
	}
	if got := Format(wispval.Fixnum(-10), 2, false); got != "-1010" {
		t.Fatalf("got %q, want \"-1010\"", got)
	}
}

func TestFormatRational(t *testing.T) {
	r, _ := numeric.MakeRational(wispval.Fixnum(3), wispval.Fixnum(4))
	if got := Format(r, 10, false); got != "3/4" {
		t.Fatalf("got %q, want \"3/4\"", got)
	}
}

func TestFormatFlonumFixedAndScientific(t *testing.T) {
	cases := map[float64]string{
		0:       "0.0",
		3.25:    "3.25",
		100:     "100.0",
		0.5:     "0.5",
		0.00001: "1.0e-5",
	}
	for f, want := range cases {
		if got := FormatFlonum(f); got != want {
			t.Errorf("FormatFlonum(%v) = %q, want %q", f, got, want)
		}
	}
}

func TestFormatFlonumSpecials(t *testing.T) {
	if got := FormatFlonum(math.Inf(1)); got != "+inf.0" {
		t.Fatalf("got %q, want \"+inf.0\"", got)
	}
	if got := FormatFlonum(math.Inf(-1)); got != "-inf.0" {
		t.Fatalf("got %q, want \"-inf.0\"", got)
	}
	if got := FormatFlonum(math.NaN()); got != "+nan.0" {
		t.Fatalf("got %q, want \"+nan.0\"", got)
	}
}

func TestFormatCompnum(t *testing.T) {
	c := &wispval.Compnum{Re: 3, Im: 4}
	if got := Format(c, 10, false); got != "3.0+4.0i" {
		t.Fatalf("got %q, want \"3.0+4.0i\"", got)
	}
	c = &wispval.Compnum{Re: 0, Im: -1}
	if got := Format(c, 10, false); got != "0.0-1.0i" {
		t.Fatalf("got %q, want \"0.0-1.0i\"", got)
	}
}

func TestRoundTripIntegerAndDecimal(t *testing.T) {
	for _, text := range []string{"12345", "-999", "3.14159", "2.5e10"} {
		v := mustParse(t, text, 10)
		back := Format(v, 10, false)
		v2, ok, err := Parse([]byte(back), 10, true)
		if err != nil || !ok {
			t.Fatalf("round-trip reparse of %q (from %q) failed: ok=%v err=%v", back, text, ok, err)
		}
		eq, err := numeric.Equal(v, v2)
		if err != nil {
			t.Fatal(err)
		}
		if !eq {
			t.Errorf("round trip %q -> %q -> %v did not preserve value (started %v)", text, back, v2, v)
		}
	}
}
