package proptest

import (
	"fmt"
	"math"
	"math/rand"

	"wisp/internal/condition"
	"wisp/internal/contin"
	"wisp/internal/numeric"
	"wisp/internal/numio"
	"wisp/internal/wispval"
)

// Scenarios returns the concrete seed test suite: fixed inputs with a
// fixed expected output, as opposed to Laws' randomised properties.
func Scenarios() *Suite {
	s := &Suite{Name: "seed scenarios"}
	s.Add(scenarioDivision())
	s.Add(scenarioExptBignum())
	s.Add(scenarioNumberToStringShortest())
	s.Add(scenarioReadImplLimit())
	s.Add(scenarioDynamicWindReentry())
	s.Add(scenarioGuardMatch())
	s.Add(scenarioGuardReraiseUnchanged())
	return s
}

func conditionOf(err error) (*wispval.SimpleCondition, bool) {
	c, ok := err.(interface{ Condition() *wispval.SimpleCondition })
	if !ok {
		return nil, false
	}
	return c.Condition(), true
}

// (/ 1 3) -> 1/3; (/ 1.0 3) -> ~0.3333333333333333; (/ 1 0) -> arith/div-by-zero;
// (/ 1.0 0) -> +inf.0; (/ 0.0 0.0) -> +nan.0.
func scenarioDivision() Case {
	return Case{Name: "division family", Run: func(r *rand.Rand) error {
		v, err := numeric.Arith(numeric.OpDiv, wispval.Fixnum(1), wispval.Fixnum(3))
		if err != nil {
			return err
		}
		rat, ok := v.(*wispval.Rational)
		if !ok {
			return fmt.Errorf("(/ 1 3) = %v (%T), want a Rational", v, v)
		}
		eq, err := numeric.Equal(rat, mustRational(1, 3))
		if err != nil {
			return err
		}
		if !eq {
			return fmt.Errorf("(/ 1 3) = %v, want 1/3", v)
		}

		v, err = numeric.Arith(numeric.OpDiv, wispval.Flonum(1), wispval.Fixnum(3))
		if err != nil {
			return err
		}
		f, ok := v.(wispval.Flonum)
		if !ok || math.Abs(float64(f)-1.0/3.0) > 1e-15 {
			return fmt.Errorf("(/ 1.0 3) = %v, want ~0.3333333333333333", v)
		}

		_, err = numeric.Arith(numeric.OpDiv, wispval.Fixnum(1), wispval.Fixnum(0))
		if err == nil {
			return fmt.Errorf("(/ 1 0) did not error")
		}
		cond, ok := conditionOf(err)
		if !ok || !cond.Type.IsSubtypeOf(condition.TagDivByZero) {
			return fmt.Errorf("(/ 1 0) error = %v, want arith/div-by-zero condition", err)
		}

		v, err = numeric.Arith(numeric.OpDiv, wispval.Flonum(1), wispval.Fixnum(0))
		if err != nil {
			return err
		}
		if f, ok := v.(wispval.Flonum); !ok || !math.IsInf(float64(f), 1) {
			return fmt.Errorf("(/ 1.0 0) = %v, want +inf.0", v)
		}

		v, err = numeric.Arith(numeric.OpDiv, wispval.Flonum(0), wispval.Flonum(0))
		if err != nil {
			return err
		}
		if f, ok := v.(wispval.Flonum); !ok || !math.IsNaN(float64(f)) {
			return fmt.Errorf("(/ 0.0 0.0) = %v, want +nan.0", v)
		}
		return nil
	}}
}

func mustRational(n, d int64) wispval.Value {
	v, err := numeric.MakeRational(wispval.Fixnum(n), wispval.Fixnum(d))
	if err != nil {
		panic(err) // n, d are compile-time constants here; a failure means this package is broken, not the input
	}
	return v
}

// (expt 2 100) -> 1267650600228229401496703205376.
func scenarioExptBignum() Case {
	return Case{Name: "expt 2^100", Run: func(r *rand.Rand) error {
		v, err := numeric.Expt(wispval.Fixnum(2), wispval.Fixnum(100))
		if err != nil {
			return err
		}
		got := numio.Format(v, 10, false)
		want := "1267650600228229401496703205376"
		if got != want {
			return fmt.Errorf("(expt 2 100) = %s, want %s", got, want)
		}
		return nil
	}}
}

// (number->string 0.1) -> "0.1", not the full binary expansion.
func scenarioNumberToStringShortest() Case {
	return Case{Name: "number->string shortest decimal", Run: func(r *rand.Rand) error {
		got := numio.Format(wispval.Flonum(0.1), 10, false)
		if got != "0.1" {
			return fmt.Errorf("(number->string 0.1) = %q, want \"0.1\"", got)
		}
		return nil
	}}
}

// (read-from-string "1e400") with #e prefix raises number/impl-limit;
// without a prefix it returns +inf.0.
func scenarioReadImplLimit() Case {
	return Case{Name: "read overflow to impl-limit / infinity", Run: func(r *rand.Rand) error {
		v, ok, err := numio.Parse([]byte("1e400"), 10, true)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("\"1e400\" did not parse as a number")
		}
		f, ok := v.(wispval.Flonum)
		if !ok || !math.IsInf(float64(f), 1) {
			return fmt.Errorf("(read-from-string \"1e400\") = %v, want +inf.0", v)
		}

		_, _, err = numio.Parse([]byte("#e1e400"), 10, true)
		if err == nil {
			return fmt.Errorf("\"#e1e400\" did not error")
		}
		cond, ok := conditionOf(err)
		if !ok || !cond.Type.IsSubtypeOf(condition.TagNumberImplLim) {
			return fmt.Errorf("\"#e1e400\" error = %v, want number/impl-limit condition", err)
		}
		return nil
	}}
}

// The R5RS dynamic-wind example: a generator re-entered once via a
// stored continuation produces the trace
// (connect talk1 disconnect connect talk2 disconnect).
func scenarioDynamicWindReentry() Case {
	return Case{Name: "dynamic-wind connect/talk/disconnect", Run: func(r *rand.Rand) error {
		s := contin.NewState()
		var trace []string
		var saved *contin.Continuation
		talkCount := 0

		// exit stands for the code after the dynamic-wind form. Resuming
		// saved records the next talk and then leaves the extent through
		// exit, the way the suspended body does on its way out.
		exit := contin.Capture(s, func(values []wispval.Value) (wispval.Value, error) {
			return wispval.Unspecified, nil
		})

		_, err := contin.DynamicWind(s,
			func() (wispval.Value, error) { trace = append(trace, "connect"); return wispval.Unspecified, nil },
			func() (wispval.Value, error) {
				talkCount++
				trace = append(trace, fmt.Sprintf("talk%d", talkCount))
				if saved == nil {
					saved = contin.Capture(s, func(values []wispval.Value) (wispval.Value, error) {
						talkCount++
						trace = append(trace, fmt.Sprintf("talk%d", talkCount))
						return contin.Invoke(s, exit, nil)
					})
				}
				return wispval.Unspecified, nil
			},
			func() (wispval.Value, error) { trace = append(trace, "disconnect"); return wispval.Unspecified, nil })
		if err != nil {
			return err
		}

		if _, err := contin.Invoke(s, saved, nil); err != nil {
			return err
		}

		want := []string{"connect", "talk1", "disconnect", "connect", "talk2", "disconnect"}
		if len(trace) != len(want) {
			return fmt.Errorf("trace = %v, want %v", trace, want)
		}
		for i := range want {
			if trace[i] != want[i] {
				return fmt.Errorf("trace = %v, want %v", trace, want)
			}
		}
		return nil
	}}
}

// (guard (x ((symbol? x) (cons 'symbol x))) (raise 'a)) -> (symbol . a)
func scenarioGuardMatch() Case {
	return Case{Name: "guard matching clause", Run: func(r *rand.Rand) error {
		cs := contin.NewState()
		hs := condition.NewHandlerStack()
		sym := wispval.Intern("a")

		clause := condition.Clause{
			Test: func(cond wispval.Value) (wispval.Value, bool) {
				return cond, wispval.IsSymbol(cond)
			},
			Body: func(testResult, cond wispval.Value) (wispval.Value, error) {
				return wispval.Cons(wispval.Intern("symbol"), cond), nil
			},
		}

		v, err := condition.Guard(cs, hs, []condition.Clause{clause}, nil, func() (wispval.Value, error) {
			return nil, condition.Raise(hs, sym)
		})
		if err != nil {
			return err
		}
		pair, ok := v.(*wispval.Pair)
		if !ok {
			return fmt.Errorf("guard result = %v (%T), want a pair", v, v)
		}
		if pair.Car != wispval.Value(wispval.Intern("symbol")) || pair.Cdr != wispval.Value(sym) {
			return fmt.Errorf("guard result = %v, want (symbol . a)", v)
		}
		return nil
	}}
}

// (guard (x ((symbol? x) …)) (raise 4)) re-raises 4 unchanged.
func scenarioGuardReraiseUnchanged() Case {
	return Case{Name: "guard re-raise of non-matching value", Run: func(r *rand.Rand) error {
		cs := contin.NewState()
		hs := condition.NewHandlerStack()

		var seenByOuter wispval.Value
		hs.Push(func(cond wispval.Value) (wispval.Value, error) {
			seenByOuter = cond
			return wispval.Unspecified, nil
		})

		clause := condition.Clause{
			Test: func(cond wispval.Value) (wispval.Value, bool) {
				return cond, wispval.IsSymbol(cond)
			},
			Body: func(testResult, cond wispval.Value) (wispval.Value, error) { return cond, nil },
		}

		four := wispval.Fixnum(4)
		_, err := condition.Guard(cs, hs, []condition.Clause{clause}, nil, func() (wispval.Value, error) {
			return nil, condition.Raise(hs, four)
		})
		if err != nil {
			return err
		}
		if seenByOuter != wispval.Value(four) {
			return fmt.Errorf("outer handler saw %v, want unchanged 4", seenByOuter)
		}
		return nil
	}}
}
