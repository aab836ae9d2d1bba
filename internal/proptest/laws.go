package proptest

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"wisp/internal/bignum"
	"wisp/internal/condition"
	"wisp/internal/contin"
	"wisp/internal/numeric"
	"wisp/internal/numio"
	"wisp/internal/wispval"
)

// Laws returns the eight universal-law property checks.
func Laws() *Suite {
	s := &Suite{Name: "universal laws"}
	s.Add(lawRoundTripFlonum())
	s.Add(lawShortestDecimal())
	s.Add(lawExactClosure())
	s.Add(lawMixedComparisonPrecision())
	s.Add(lawGcd())
	s.Add(lawDynamicWindOrder())
	s.Add(lawReentrantContinuation())
	s.Add(lawGuardReraise())
	return s
}

// 1. Round-trip flonum: parse(print(v)) == v, bit-identical.
func lawRoundTripFlonum() Case {
	return Case{Name: "round-trip flonum", Trials: 200, Run: func(r *rand.Rand) error {
		v := genFiniteFlonum(r)
		text := numio.FormatFlonum(float64(v))
		back, ok, err := numio.Parse([]byte(text), 10, true)
		if err != nil {
			return fmt.Errorf("reparsing %q: %w", text, err)
		}
		if !ok {
			return fmt.Errorf("printed form %q of %v did not reparse as a number", text, v)
		}
		f, ok := back.(wispval.Flonum)
		if !ok {
			return fmt.Errorf("printed form %q reparsed as %T, not a flonum", text, back)
		}
		if f != v {
			return Diff(fmt.Sprintf("round-trip of %v via %q", v, text), v, f)
		}
		return nil
	}}
}

// 2. Shortest-decimal: no proper prefix of print(v)'s digit run
// reparses to the same flonum. Approximated by truncating the last
// significant digit of the formatted text and checking the result
// either fails to parse or parses to a different value.
func lawShortestDecimal() Case {
	return Case{Name: "shortest decimal", Trials: 200, Run: func(r *rand.Rand) error {
		v := genFiniteFlonum(r)
		if v == 0 {
			return nil
		}
		text := numio.FormatFlonum(float64(v))
		truncated, ok := dropLastDigit(text)
		if !ok {
			return nil // text had no droppable digit (e.g. "0.0")
		}
		back, ok, err := numio.Parse([]byte(truncated), 10, true)
		if err != nil || !ok {
			return nil // truncation produced unparseable text: law holds vacuously
		}
		f, ok := back.(wispval.Flonum)
		if ok && f == v {
			return fmt.Errorf("truncated form %q of %v (from %q) still parses to the same value", truncated, v, text)
		}
		return nil
	}}
}

// dropLastDigit removes the rightmost decimal digit from s's
// mantissa, leaving any exponent suffix intact.
func dropLastDigit(s string) (string, bool) {
	end := len(s)
	if e := strings.IndexByte(s, 'e'); e >= 0 {
		end = e
	}
	for i := end - 1; i >= 0; i-- {
		if s[i] >= '0' && s[i] <= '9' {
			if i == end-1 {
				return s[:i] + s[i+1:], true
			}
			return s[:i] + s[i+1:], true
		}
	}
	return "", false
}

// 3. Exact closure: for exact a, b (b != 0): a+b-b == a, (a*b)/b == a.
func lawExactClosure() Case {
	return Case{Name: "exact closure", Trials: 300, Run: func(r *rand.Rand) error {
		a := genFixnum(r)
		b := genNonzeroFixnum(r)

		sum, err := numeric.Arith(numeric.OpAdd, a, b)
		if err != nil {
			return err
		}
		back, err := numeric.Arith(numeric.OpSub, sum, b)
		if err != nil {
			return err
		}
		eq, err := numeric.Equal(a, back)
		if err != nil {
			return err
		}
		if !eq {
			return Diff(fmt.Sprintf("(%v + %v) - %v", a, b, b), a, back)
		}

		prod, err := numeric.Arith(numeric.OpMul, a, b)
		if err != nil {
			return err
		}
		back, err = numeric.Arith(numeric.OpDiv, prod, b)
		if err != nil {
			return err
		}
		eq, err = numeric.Equal(a, back)
		if err != nil {
			return err
		}
		if !eq {
			return Diff(fmt.Sprintf("(%v * %v) / %v", a, b, b), a, back)
		}
		return nil
	}}
}

// 4. Mixed comparison precision: B < F iff B*2^1075 < F*2^1075 as exact
// integers. 1075 exceeds the exponent of the smallest subnormal
// double's denominator (2^1074), so F*2^1075 is always an exact
// integer. Checked against an independent math/big computation, not
// against numeric's own Compare internals.
func lawMixedComparisonPrecision() Case {
	scale := new(big.Int).Lsh(big.NewInt(1), 1075)
	return Case{Name: "mixed comparison precision", Trials: 300, Run: func(r *rand.Rand) error {
		b := genBignum(r)
		f := genFiniteFlonum(r)

		bBig := bignum.ToBigInt(b)
		bScaled := new(big.Int).Mul(bBig, scale)

		fRat := new(big.Rat).SetFloat64(float64(f))
		fScaled := new(big.Rat).Mul(fRat, new(big.Rat).SetInt(scale))
		if !fScaled.IsInt() {
			return fmt.Errorf("F*2^1075 was not an exact integer for F=%v", f)
		}

		want := bScaled.Cmp(fScaled.Num()) < 0
		got, err := numeric.Less(b, f)
		if err != nil {
			return err
		}
		if want != got {
			return fmt.Errorf("Less(%v, %v) = %v, want %v (exact cross-multiplied comparison)", b, f, got, want)
		}
		return nil
	}}
}

// 5. gcd(0, y) = |y|; gcd(a, b) = gcd(b, a mod b); result non-negative.
func lawGcd() Case {
	return Case{Name: "gcd", Trials: 300, Run: func(r *rand.Rand) error {
		y := genNonzeroFixnum(r)
		g, err := numeric.Gcd(wispval.Fixnum(0), y)
		if err != nil {
			return err
		}
		absY, err := numeric.Abs(y)
		if err != nil {
			return err
		}
		eq, err := numeric.Equal(g, absY)
		if err != nil {
			return err
		}
		if !eq {
			return Diff(fmt.Sprintf("gcd(0, %v)", y), absY, g)
		}

		a, b := genFixnum(r), genNonzeroFixnum(r)
		g1, err := numeric.Gcd(a, b)
		if err != nil {
			return err
		}
		m, err := numeric.Modulo(a, b)
		if err != nil {
			return err
		}
		g2, err := numeric.Gcd(b, m)
		if err != nil {
			return err
		}
		eq, err = numeric.Equal(g1, g2)
		if err != nil {
			return err
		}
		if !eq {
			return Diff(fmt.Sprintf("gcd(%v,%v) vs gcd(%v, %v mod %v)", a, b, b, a, b), g1, g2)
		}
		if sign, _ := numeric.Sign(g1); sign < 0 {
			return fmt.Errorf("gcd(%v, %v) = %v is negative", a, b, g1)
		}
		return nil
	}}
}

// 6. dynamic-wind order: for a chain of nested winds of random depth,
// re-entering from the root extent a continuation captured at the
// innermost point runs every before thunk top-down, outermost first,
// then the resume itself, and no after thunk.
func lawDynamicWindOrder() Case {
	return Case{Name: "dynamic-wind order", Trials: 50, Run: func(r *rand.Rand) error {
		depth := 1 + r.Intn(4)
		var trace []string
		s := contin.NewState()

		var captured *contin.Continuation
		var build func(level int) (wispval.Value, error)
		build = func(level int) (wispval.Value, error) {
			if level == depth {
				captured = contin.Capture(s, func(values []wispval.Value) (wispval.Value, error) {
					trace = append(trace, "resumed")
					return wispval.Unspecified, nil
				})
				trace = append(trace, "leaf")
				return wispval.Unspecified, nil
			}
			name := fmt.Sprintf("%d", level)
			return contin.DynamicWind(s,
				func() (wispval.Value, error) { trace = append(trace, "before"+name); return wispval.Unspecified, nil },
				func() (wispval.Value, error) { return build(level + 1) },
				func() (wispval.Value, error) { trace = append(trace, "after"+name); return wispval.Unspecified, nil })
		}

		if _, err := build(0); err != nil {
			return err
		}
		if captured == nil {
			return fmt.Errorf("capture never ran")
		}

		// After build(0) returns, every frame has already unwound (s is
		// back at the root); re-entering the captured leaf should replay
		// every before-thunk top-down, ending with the resume itself,
		// and run no after-thunk at all (there was nothing to unwind).
		before := len(trace)
		if _, err := contin.Invoke(s, captured, nil); err != nil {
			return err
		}
		reentry := trace[before:]
		if len(reentry) != depth+1 {
			return fmt.Errorf("re-entry trace %v has %d events, want %d (depth before-thunks + resume)", reentry, len(reentry), depth+1)
		}
		for i, ev := range reentry[:depth] {
			want := fmt.Sprintf("before%d", i)
			if ev != want {
				return fmt.Errorf("re-entry trace %v: event %d = %q, want %q", reentry, i, ev, want)
			}
		}
		if reentry[depth] != "resumed" {
			return fmt.Errorf("re-entry trace %v: last event = %q, want \"resumed\"", reentry, reentry[depth])
		}
		return nil
	}}
}

// 7. Re-entrant continuation: invoking the same captured continuation
// twice produces two observationally equivalent executions, compared
// here by the dynamic-wind side effects each run records.
func lawReentrantContinuation() Case {
	return Case{Name: "re-entrant continuation", Trials: 20, Run: func(r *rand.Rand) error {
		s := contin.NewState()
		var log1, log2 []string

		k := contin.Capture(s, func(values []wispval.Value) (wispval.Value, error) {
			return wispval.Fixnum(42), nil
		})

		run := func(log *[]string) error {
			_, err := contin.DynamicWind(s,
				func() (wispval.Value, error) { *log = append(*log, "in"); return wispval.Unspecified, nil },
				func() (wispval.Value, error) { return contin.Invoke(s, k, nil) },
				func() (wispval.Value, error) { *log = append(*log, "out"); return wispval.Unspecified, nil })
			return err
		}

		if err := run(&log1); err != nil {
			return err
		}
		if err := run(&log2); err != nil {
			return err
		}
		if len(log1) != len(log2) {
			return Diff("two invocations of the same continuation", log1, log2)
		}
		for i := range log1 {
			if log1[i] != log2[i] {
				return Diff("two invocations of the same continuation", log1, log2)
			}
		}
		return nil
	}}
}

// 8. Guard re-raise: a guard whose clauses all fail to match re-raises
// the original condition, unchanged, to the next outer handler.
func lawGuardReraise() Case {
	return Case{Name: "guard re-raise", Trials: 1, Run: func(r *rand.Rand) error {
		cs := contin.NewState()
		hs := condition.NewHandlerStack()

		raised := wispval.Fixnum(99)
		var seenByOuter wispval.Value
		hs.Push(func(cond wispval.Value) (wispval.Value, error) {
			seenByOuter = cond
			return wispval.Unspecified, nil
		})

		noMatch := condition.Clause{
			Test: func(cond wispval.Value) (wispval.Value, bool) { return nil, false },
		}
		_, err := condition.Guard(cs, hs, []condition.Clause{noMatch}, nil, func() (wispval.Value, error) {
			return nil, condition.Raise(hs, raised)
		})
		if err != nil {
			return err
		}
		if seenByOuter != wispval.Value(raised) {
			return Diff("condition seen by outer handler after guard re-raise", raised, seenByOuter)
		}
		return nil
	}}
}
