package contin

import (
	"errors"
	"testing"

	"wisp/internal/wispval"
)

func TestDynamicWindRunsBeforeBodyAfterInOrder(t *testing.T) {
	s := NewState()
	var trace []string

	before := func() (wispval.Value, error) {
		trace = append(trace, "before")
		return wispval.Unspecified, nil
	}
	body := func() (wispval.Value, error) {
		trace = append(trace, "body")
		return wispval.Fixnum(1), nil
	}
	after := func() (wispval.Value, error) {
		trace = append(trace, "after")
		return wispval.Unspecified, nil
	}

	v, err := DynamicWind(s, before, body, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(1) {
		t.Fatalf("result = %v, want 1", v)
	}
	want := []string{"before", "body", "after"}
	if !equalStrings(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	if s.Current != nil {
		t.Fatalf("State.Current = %v, want nil (back at root)", s.Current)
	}
}

func TestDynamicWindRunsAfterOnBodyError(t *testing.T) {
	s := NewState()
	var trace []string
	noop := func() (wispval.Value, error) { return wispval.Unspecified, nil }
	after := func() (wispval.Value, error) {
		trace = append(trace, "after")
		return wispval.Unspecified, nil
	}
	boom := errors.New("boom")
	body := func() (wispval.Value, error) { return nil, boom }

	_, err := DynamicWind(s, noop, body, after)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !equalStrings(trace, []string{"after"}) {
		t.Fatalf("trace = %v, want [after] (after still runs on body error)", trace)
	}
}

func TestDynamicWindNesting(t *testing.T) {
	s := NewState()
	var trace []string
	mark := func(name string) Thunk {
		return func() (wispval.Value, error) {
			trace = append(trace, name)
			return wispval.Unspecified, nil
		}
	}

	_, err := DynamicWind(s, mark("outer-before"), func() (wispval.Value, error) {
		return DynamicWind(s, mark("inner-before"), mark("inner-body"), mark("inner-after"))
	}, mark("outer-after"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"outer-before", "inner-before", "inner-body", "inner-after", "outer-after"}
	if !equalStrings(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
}

func TestCallCCEscapeReturnsInvokedValue(t *testing.T) {
	s := NewState()
	v, err := CallCC(s, func(k *Continuation) (wispval.Value, error) {
		if _, err := Invoke(s, k, []wispval.Value{wispval.Fixnum(42)}); err != nil {
			return nil, err
		}
		t.Fatal("unreachable: Invoke should have unwound past this point")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(42) {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestCallCCNormalReturnWithoutInvoke(t *testing.T) {
	s := NewState()
	v, err := CallCC(s, func(k *Continuation) (wispval.Value, error) {
		return wispval.Fixnum(7), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(7) {
		t.Fatalf("got %v, want 7", v)
	}
}

// TestInvokeReentersDynamicWindExtent exercises the lowest-common-ancestor
// walk directly: escaping a dynamic-wind extent via Invoke runs that
// extent's After, and a reusable Capture/Invoke (not CallCC, which is
// one-shot) can re-enter it, running Before again.
func TestInvokeReentersDynamicWindExtent(t *testing.T) {
	var trace []string
	mark := func(name string) Thunk {
		return func() (wispval.Value, error) {
			trace = append(trace, name)
			return wispval.Unspecified, nil
		}
	}

	// Capture a continuation from inside a dynamic-wind extent and keep it
	// around so Invoke can be called on it after the DynamicWind call has
	// already returned (s2.Current is back at root by then).
	var saved *Continuation
	s2 := NewState()
	_, err := DynamicWind(s2, mark("before2"), func() (wispval.Value, error) {
		saved = Capture(s2, func(values []wispval.Value) (wispval.Value, error) {
			trace = append(trace, "resumed")
			return wispval.Unspecified, nil
		})
		return wispval.Unspecified, nil
	}, mark("after2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trace = nil
	if _, err := Invoke(s2, saved, nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := []string{"before2", "resumed"}
	if !equalStrings(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
