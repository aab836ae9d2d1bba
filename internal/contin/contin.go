// Package contin implements capture/restore of the evaluator's control
// state, and entry/exit of dynamic-wind frames in the order call/cc and
// dynamic-wind together require. It is deliberately evaluator-agnostic, the
// actual "jump back into suspended code" mechanism is supplied by the
// caller as a plain Go closure (a Resume func), so this package owns only
// the part that is fully specified and testable on its own: the
// dynamic-wind tree, the before/after ordering on entry, exit, and
// continuation invocation, and the lowest-common-ancestor walk.
//
// CallCC, below, is a convenience built on top of that for the common
// case: a continuation invoked while its capturing Go call is still on
// the stack, which covers escape continuations (early return, generator-
// style early exit, and the condition system's guard/raise). Invoking a
// continuation after its capturing CallCC call has already returned
// requires the caller to hold a reusable (not one-shot) Resume closure
// and call Capture/Invoke directly, Go has no way to copy or rewind a
// goroutine's stack, so CallCC's panic-based resume cannot outlive its
// own call frame. See DESIGN.md for the design discussion this resolves.
package contin

import (
	"github.com/google/uuid"

	"wisp/internal/diag"
	"wisp/internal/gcalloc"
	"wisp/internal/wispval"
)

// Thunk is a zero-argument computation, the shape `before`, `body`, and
// `after` all take.
type Thunk func() (wispval.Value, error)

// Node is one dynamic-wind frame. The tree is persistent: DynamicWind
// always allocates a new child node and never mutates an existing one, so
// a node captured by one continuation is safely shared with any sibling
// capture that passes through it.
type Node struct {
	Before, After Thunk
	Parent        *Node // nil only for the implicit root extent
}

// State is the dynamic-wind portion of a VM's per-context state. Package
// vmctx groups this together with the condition handler stack and other
// per-VM state into a single context object; contin itself need not know
// about conditions or ports at all.
type State struct {
	Current *Node // nil means the root (empty) extent
}

// NewState returns a State positioned at the root extent.
func NewState() *State { return &State{} }

// Continuation is a captured control point: the dynamic-wind node active
// when it was captured, and the closure that transfers control back
// there once Invoke has finished repositioning the dynamic-wind tree.
type Continuation struct {
	ID     uuid.UUID
	Node   *Node
	resume func(values []wispval.Value) (wispval.Value, error)
}

// Capture reifies the current control point as a Continuation. resume is
// called by Invoke, after the dynamic-wind tree has already been
// repositioned to Node, with whatever values the invocation supplied.
func Capture(s *State, resume func(values []wispval.Value) (wispval.Value, error)) *Continuation {
	return &Continuation{ID: uuid.New(), Node: s.Current, resume: resume}
}

// DynamicWind runs before, then body, then after, pushing a new child
// node for the duration of body and popping it on the way out, even if
// body exits by invoking a continuation or by a raised condition, via
// the defer below. before and after themselves run with the *parent*
// node current.
func DynamicWind(s *State, before, body, after Thunk) (result wispval.Value, err error) {
	parent := s.Current
	node := &Node{Before: before, After: after, Parent: parent}

	if _, err := before(); err != nil {
		return nil, err
	}
	s.Current = node

	defer func() {
		// If s.Current still points at (or below, transiently, during an
		// in-flight Invoke) this node, nobody has run its After yet, do
		// it now and pop. If a continuation invocation already walked us
		// out (Invoke runs After for every node it passes on its way up,
		// before it ever calls resume), s.Current no longer descends from
		// node, and there is nothing left to do here.
		if isAtOrBelow(s.Current, node) {
			s.Current = parent
			if _, aerr := after(); aerr != nil && err == nil {
				err = aerr
			}
		}
	}()

	result, err = body()
	return
}

func isAtOrBelow(cur, node *Node) bool {
	for n := cur; n != nil; n = n.Parent {
		if n == node {
			return true
		}
	}
	return false
}

// ancestors returns node's chain from node up to (and including) the
// root, as a set for LCA lookup.
func ancestors(node *Node) map[*Node]int {
	depths := make(map[*Node]int)
	d := 0
	for n := node; n != nil; n = n.Parent {
		depths[n] = d
		d++
	}
	return depths
}

// lca returns the lowest common ancestor of a and b (nil meaning the
// root extent is a valid answer).
func lca(a, b *Node) *Node {
	depths := ancestors(a)
	for n := b; ; n = n.Parent {
		if _, ok := depths[n]; ok {
			return n
		}
		if n == nil {
			return nil
		}
	}
}

// pathDown returns the nodes strictly between lca and target, ordered
// outermost (nearest lca) to innermost (target), i.e. the order their
// Before thunks must run in on the way back in.
func pathDown(from, target *Node) []*Node {
	var path []*Node
	for n := target; n != from; n = n.Parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Invoke transfers control to k: it finds the common ancestor of the
// current node and k.Node, runs After bottom-up from the current node up
// to the ancestor, then runs Before top-down from the ancestor down to
// k.Node, then calls k's resume closure with values. The first error
// encountered aborts the walk.
func Invoke(s *State, k *Continuation, values []wispval.Value) (wispval.Value, error) {
	target := lca(s.Current, k.Node)

	for n := s.Current; n != target; n = n.Parent {
		if n == nil {
			// lca guarantees target is an ancestor of s.Current; reaching
			// the root without finding it means the tree itself is
			// inconsistent, not that this particular Invoke call made a
			// mistake. There is no sound way to keep evaluating on top of
			// that, so this aborts rather than returning an error a guard
			// clause could catch and paper over.
			gcalloc.Fatal(diag.New("contin: dynamic-wind tree corrupted during unwind"))
		}
		if _, err := n.After(); err != nil {
			return nil, err
		}
		s.Current = n.Parent
	}

	for _, n := range pathDown(target, k.Node) {
		if _, err := n.Before(); err != nil {
			return nil, err
		}
		s.Current = n
	}

	return k.resume(values)
}

// jump is the panic payload CallCC's resume closures use to unwind the
// Go call stack back to their own CallCC frame. It is never observed
// outside this package.
type jump struct {
	id     uuid.UUID
	values []wispval.Value
	err    error
}

// CallCC captures the current control point and passes it to proc. If
// proc invokes the continuation while proc's own Go call is still on the
// stack (directly, or from something proc called, the common escape-
// continuation pattern used by early-return, generator early-exit, and
// the condition system's guard), CallCC returns the supplied values
// instead of proc's normal return value. If proc returns normally
// without invoking k, that return value is CallCC's result.
//
// Invoking k again after CallCC has already returned is not supported by
// this wrapper, there is no live Go frame left to unwind to. Code that
// needs a continuation reusable across multiple invocations (see
// contin_test.go's dynamic-wind reentry scenario) should call Capture
// and Invoke directly with a Resume closure it can call any number of
// times, rather than going through CallCC.
func CallCC(s *State, proc func(k *Continuation) (wispval.Value, error)) (result wispval.Value, err error) {
	id := uuid.New()
	k := &Continuation{ID: id, Node: s.Current}
	k.resume = func(values []wispval.Value) (wispval.Value, error) {
		panic(jump{id: id, values: values})
	}

	defer func() {
		if r := recover(); r != nil {
			j, ok := r.(jump)
			if !ok || j.id != id {
				panic(r) // not ours: let it keep unwinding
			}
			if len(j.values) == 0 {
				result, err = wispval.Unspecified, j.err
				return
			}
			result, err = j.values[0], j.err
		}
	}()

	return proc(k)
}
