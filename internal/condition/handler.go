package condition

import (
	"wisp/internal/contin"
	"wisp/internal/wispval"
)

// Handler is a raised-condition handler: the value it receives is
// whatever was passed to raise.
type Handler func(cond wispval.Value) (wispval.Value, error)

// HandlerStack is the per-VM handler stack: raise pops the topmost
// handler (reducing the stack) before invoking it, so a re-raise inside
// the handler reaches the next outer one.
type HandlerStack struct {
	stack []Handler
}

// NewHandlerStack returns an empty handler stack.
func NewHandlerStack() *HandlerStack { return &HandlerStack{} }

// Mark returns the current depth, to be passed to TruncateTo on exit
// from the dynamic extent that is about to Push a handler.
func (hs *HandlerStack) Mark() int { return len(hs.stack) }

// Push installs handler as the new topmost handler.
func (hs *HandlerStack) Push(h Handler) { hs.stack = append(hs.stack, h) }

// TruncateTo restores the stack to depth mark if it is currently deeper
// (a no-op if raise, or a nested guard's own TruncateTo, already shrank
// it that far or further).
func (hs *HandlerStack) TruncateTo(mark int) {
	if len(hs.stack) > mark {
		hs.stack = hs.stack[:mark]
	}
}

// Unhandled is returned by Raise when the handler stack is empty: the
// condition surfaces at the process boundary by terminating the
// computation with this error.
type Unhandled struct {
	Condition wispval.Value
}

func (u *Unhandled) Error() string {
	if sc, ok := u.Condition.(*wispval.SimpleCondition); ok {
		return "unhandled condition: " + sc.Type.Name + ": " + sc.Message
	}
	return "unhandled condition (raised a non-condition value)"
}

// Raise looks up the current handler stack: if empty, returns
// *Unhandled. Otherwise it pops the topmost handler and invokes it with
// cond, with the stack already reduced.
func Raise(hs *HandlerStack, cond wispval.Value) error {
	if len(hs.stack) == 0 {
		return &Unhandled{Condition: cond}
	}
	h := hs.stack[len(hs.stack)-1]
	hs.stack = hs.stack[:len(hs.stack)-1]
	_, err := h(cond)
	return err
}

// Clause is one guard clause: Test reports whether cond matches (and
// returns the value bound for Body, typically cond itself or a
// transformation of it, mirroring `cond`'s `=>` form); Body evaluates
// the clause's consequent.
type Clause struct {
	Test func(cond wispval.Value) (wispval.Value, bool)
	Body func(testResult, cond wispval.Value) (wispval.Value, error)
}

// Guard installs a handler for the dynamic extent of body: on
// invocation it evaluates clauses like `cond`, with the matching
// clause's value becoming guard's result. If no clause (including no
// `else`, when elseClause is nil) matches, the original condition is
// re-raised to the next outer handler, unchanged.
func Guard(cs *contin.State, hs *HandlerStack, clauses []Clause, elseClause *Clause, body contin.Thunk) (wispval.Value, error) {
	return contin.CallCC(cs, func(k *contin.Continuation) (wispval.Value, error) {
		mark := hs.Mark()
		defer hs.TruncateTo(mark)

		hs.Push(func(cond wispval.Value) (wispval.Value, error) {
			for _, c := range clauses {
				if result, ok := c.Test(cond); ok {
					val, err := c.Body(result, cond)
					if err != nil {
						return nil, err
					}
					return contin.Invoke(cs, k, []wispval.Value{val})
				}
			}
			if elseClause != nil {
				val, err := elseClause.Body(wispval.Unspecified, cond)
				if err != nil {
					return nil, err
				}
				return contin.Invoke(cs, k, []wispval.Value{val})
			}
			return nil, Raise(hs, cond)
		})

		return body()
	})
}
