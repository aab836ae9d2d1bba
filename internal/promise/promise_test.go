package promise

import (
	"testing"

	"wisp/internal/wispval"
)

func TestForceEager(t *testing.T) {
	p := Make(wispval.Fixnum(42))
	v, err := Force(p)
	if err != nil {
		t.Fatal(err)
	}
	if v != wispval.Fixnum(42) {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestForceLazyMemoises(t *testing.T) {
	calls := 0
	p := MakeLazy(func() (wispval.Value, error) {
		calls++
		return wispval.Fixnum(7), nil
	})

	for i := 0; i < 3; i++ {
		v, err := Force(p)
		if err != nil {
			t.Fatal(err)
		}
		if v != wispval.Fixnum(7) {
			t.Fatalf("got %v, want 7", v)
		}
	}
	if calls != 1 {
		t.Fatalf("thunk called %d times, want 1", calls)
	}
}

func TestForceChainSplicesIteratively(t *testing.T) {
	// delay-force chain: p0 -> p1 -> inner (already settled to 99), p0
	// and p1 each built from a thunk returning the next promise in the
	// chain rather than a plain value, the shape srfi-45's "long chain of
	// delay-force" case covers.
	inner := Make(wispval.Fixnum(99))
	p1 := MakeLazy(func() (wispval.Value, error) { return inner, nil })
	p0 := MakeLazy(func() (wispval.Value, error) { return p1, nil })

	v, err := Force(p0)
	if err != nil {
		t.Fatal(err)
	}
	if v != wispval.Fixnum(99) {
		t.Fatalf("got %v, want 99", v)
	}
	if p0.Kind != wispval.PromiseEager || p0.Payload != wispval.Fixnum(99) {
		t.Fatalf("p0 not settled correctly: %+v", p0)
	}
}

func TestForcePropagatesError(t *testing.T) {
	boom := wispval.String("boom")
	p := MakeLazy(func() (wispval.Value, error) {
		return nil, &testErr{boom}
	})
	_, err := Force(p)
	if err == nil {
		t.Fatal("expected error")
	}
}

type testErr struct{ v wispval.Value }

func (e *testErr) Error() string { return "test error" }

func TestGeneratorToLazySeq(t *testing.T) {
	n := 0
	gen := func() (wispval.Value, error) {
		if n >= 3 {
			return EndOfSequence, nil
		}
		n++
		return wispval.Fixnum(n), nil
	}

	seq, err := GeneratorToLazySeq(gen)
	if err != nil {
		t.Fatal(err)
	}

	var got []wispval.Fixnum
	for IsPair(seq) {
		car, err := Car(seq)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, car.(wispval.Fixnum))
		seq, err = Cdr(seq)
		if err != nil {
			t.Fatal(err)
		}
	}
	if seq != wispval.EmptyList {
		t.Fatalf("sequence did not terminate in EmptyList: %v", seq)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestGeneratorToLazySeqMemoisesTail(t *testing.T) {
	calls := 0
	gen := func() (wispval.Value, error) {
		calls++
		if calls > 1 {
			return EndOfSequence, nil
		}
		return wispval.Fixnum(1), nil
	}
	seq, err := GeneratorToLazySeq(gen)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := Cdr(seq); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Fatalf("generator called %d times across repeated Cdr, want 2", calls)
	}
}
