package vmctx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wisp/internal/condition"
	"wisp/internal/wispval"
)

func TestNewContextStartsAtRootWithEmptyHandlers(t *testing.T) {
	c := New()
	if c.DW == nil || c.Handlers == nil {
		t.Fatal("New should populate DW and Handlers")
	}
	if c.DW.Current != nil {
		t.Fatal("a fresh context should sit at the root dynamic extent")
	}
	if c.Handlers.Mark() != 0 {
		t.Fatal("a fresh context should have an empty handler stack")
	}
}

func TestTwoContextsAreIndependent(t *testing.T) {
	a, b := New(), New()
	if a.ID == b.ID {
		t.Fatal("two Contexts should have distinct IDs")
	}
	a.Log("only on a")
	if len(b.Diagnostics()) != 0 {
		t.Fatal("logging on one Context should not affect another")
	}
}

func TestLogAndDiagnostics(t *testing.T) {
	c := New()
	c.Log("first")
	c.Log("second")
	got := c.Diagnostics()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("got %v, want [first second]", got)
	}
}

func TestDynamicWindForwardsToContin(t *testing.T) {
	c := New()
	var trace []string
	mark := func(name string) func() (wispval.Value, error) {
		return func() (wispval.Value, error) {
			trace = append(trace, name)
			return wispval.Unspecified, nil
		}
	}
	v, err := c.DynamicWind(mark("before"), mark("body"), mark("after"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Unspecified {
		t.Fatalf("got %v, want Unspecified", v)
	}
	want := []string{"before", "body", "after"}
	for i, w := range want {
		if trace[i] != w {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestRaiseWithNoHandlerIsUnhandled(t *testing.T) {
	c := New()
	err := c.Raise(wispval.Fixnum(1))
	var unhandled *condition.Unhandled
	if !errors.As(err, &unhandled) {
		t.Fatalf("got %v, want *condition.Unhandled", err)
	}
}

func TestGuardForwardsToCondition(t *testing.T) {
	c := New()
	clauses := []condition.Clause{{
		Test: func(cond wispval.Value) (wispval.Value, bool) { return cond, true },
		Body: func(testResult, cond wispval.Value) (wispval.Value, error) { return wispval.Fixnum(1), nil },
	}}
	v, err := c.Guard(clauses, nil, func() (wispval.Value, error) {
		return nil, c.Raise(wispval.Fixnum(2))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != wispval.Fixnum(1) {
		t.Fatalf("got %v, want 1", v)
	}
}

func TestPoolRunsTasksOnIndependentContexts(t *testing.T) {
	p := NewPool(context.Background(), 2)
	var mu sync.Mutex
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		p.Go(func(ctx context.Context, vm *Context) error {
			mu.Lock()
			seen[vm.ID.String()] = true
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 5 {
		t.Fatalf("got %d distinct context IDs, want 5", len(seen))
	}
}

func TestPoolPropagatesFirstError(t *testing.T) {
	p := NewPool(context.Background(), 0)
	boom := errors.New("boom")
	p.Go(func(ctx context.Context, vm *Context) error { return boom })
	p.Go(func(ctx context.Context, vm *Context) error { return nil })
	if err := p.Wait(); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}
