package condition

import (
	"errors"
	"testing"

	"wisp/internal/contin"
	"wisp/internal/wispval"
)

func TestTypeLatticeSubtyping(t *testing.T) {
	if !TagDivByZero.IsSubtypeOf(ArithError) {
		t.Fatal("arith/div-by-zero should be a subtype of arith-error")
	}
	if !TagDivByZero.IsSubtypeOf(Error) {
		t.Fatal("arith/div-by-zero should be a subtype of error, transitively")
	}
	if !TagDivByZero.IsSubtypeOf(Condition) {
		t.Fatal("every condition type is a subtype of the root")
	}
	if TagDivByZero.IsSubtypeOf(IOError) {
		t.Fatal("arith/div-by-zero is not an io-error")
	}
	if !IOReadErr.IsSubtypeOf(ReadError) || !IOReadErr.IsSubtypeOf(PortError) {
		t.Fatal("io-read-error has two parents and should satisfy both")
	}
}

func TestHasTypeOnSimpleCondition(t *testing.T) {
	c := New(TagDivByZero, "division by zero")
	if !HasType(c, ArithError) {
		t.Fatal("expected HasType to walk up to arith-error")
	}
	if HasType(c, IOError) {
		t.Fatal("div-by-zero should not have type io-error")
	}
}

func TestHasTypeOnCompoundCondition(t *testing.T) {
	a := New(TagDivByZero, "division by zero")
	b := New(TagIORead, "read failed")
	compound := MakeCompound(a, b)
	if !HasType(compound, ArithError) || !HasType(compound, IOReadErr) {
		t.Fatal("compound should carry both members' types")
	}
	if HasType(compound, TagNumberParse) {
		t.Fatal("compound has no number/parse member")
	}
}

func TestMakeCompoundFlattensNestedCompounds(t *testing.T) {
	a := New(TagDivByZero, "a")
	b := New(TagIORead, "b")
	inner := MakeCompound(a, b)
	c := New(TagOverflow, "c")
	outer := MakeCompound(inner, c)
	if len(outer.Members) != 3 {
		t.Fatalf("got %d members, want 3 (flattened)", len(outer.Members))
	}
}

func TestExtractReturnsFirstMatchingMember(t *testing.T) {
	a := New(TagDivByZero, "division by zero")
	b := New(TagIORead, "read failed")
	compound := MakeCompound(a, b)
	got, ok := Extract(compound, IOReadErr)
	if !ok || got != b {
		t.Fatalf("Extract should find the io/read member, got %v ok=%v", got, ok)
	}
	if _, ok := Extract(compound, TagNumberParse); ok {
		t.Fatal("Extract should report no match for an absent type")
	}
}

func TestRaiseWithEmptyHandlerStackIsUnhandled(t *testing.T) {
	hs := NewHandlerStack()
	c := New(TagDivByZero, "division by zero")
	err := Raise(hs, c)
	var unhandled *Unhandled
	if !errors.As(err, &unhandled) {
		t.Fatalf("got %v, want *Unhandled", err)
	}
	if unhandled.Condition != wispval.Value(c) {
		t.Fatal("Unhandled should carry the original condition")
	}
}

func TestRaisePopsHandlerBeforeInvoking(t *testing.T) {
	hs := NewHandlerStack()
	var sawDepthDuringHandler int
	hs.Push(func(cond wispval.Value) (wispval.Value, error) {
		sawDepthDuringHandler = len(hs.stack)
		return wispval.Unspecified, nil
	})
	if err := Raise(hs, wispval.Fixnum(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawDepthDuringHandler != 0 {
		t.Fatalf("handler stack depth during handler = %d, want 0 (popped before invoking)", sawDepthDuringHandler)
	}
}

func TestGuardMatchingClauseReturnsItsValue(t *testing.T) {
	cs := contin.NewState()
	hs := NewHandlerStack()
	clauses := []Clause{{
		Test: func(cond wispval.Value) (wispval.Value, bool) { return cond, true },
		Body: func(testResult, cond wispval.Value) (wispval.Value, error) {
			return wispval.Fixnum(99), nil
		},
	}}
	v, err := Guard(cs, hs, clauses, nil, func() (wispval.Value, error) {
		return nil, Raise(hs, New(TagDivByZero, "division by zero"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(99) {
		t.Fatalf("got %v, want 99", v)
	}
}

func TestGuardNoMatchReraises(t *testing.T) {
	cs := contin.NewState()
	hs := NewHandlerStack()
	clauses := []Clause{{
		Test: func(cond wispval.Value) (wispval.Value, bool) { return nil, false },
	}}
	_, err := Guard(cs, hs, clauses, nil, func() (wispval.Value, error) {
		return nil, Raise(hs, New(TagDivByZero, "division by zero"))
	})
	var unhandled *Unhandled
	if !errors.As(err, &unhandled) {
		t.Fatalf("got %v, want the condition to re-raise to an empty outer stack", err)
	}
}

func TestGuardElseClauseCatchesAnything(t *testing.T) {
	cs := contin.NewState()
	hs := NewHandlerStack()
	clauses := []Clause{{
		Test: func(cond wispval.Value) (wispval.Value, bool) { return nil, false },
	}}
	elseClause := &Clause{
		Body: func(testResult, cond wispval.Value) (wispval.Value, error) {
			return wispval.Fixnum(7), nil
		},
	}
	v, err := Guard(cs, hs, clauses, elseClause, func() (wispval.Value, error) {
		return nil, Raise(hs, New(TagDivByZero, "division by zero"))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(7) {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestGuardBodyReturningNormallySkipsHandler(t *testing.T) {
	cs := contin.NewState()
	hs := NewHandlerStack()
	clauses := []Clause{{
		Test: func(cond wispval.Value) (wispval.Value, bool) {
			t.Fatal("test should not run when body never raises")
			return nil, false
		},
	}}
	v, err := Guard(cs, hs, clauses, nil, func() (wispval.Value, error) {
		return wispval.Fixnum(5), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(5) {
		t.Fatalf("got %v, want 5", v)
	}
	if hs.Mark() != 0 {
		t.Fatalf("handler stack should be back to depth 0, got %d", hs.Mark())
	}
}
