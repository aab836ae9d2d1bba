// Package promise implements delay/force with memoisation and iterative
// forcing (srfi-45 semantics), plus lazy pairs for sequence generators.
package promise

import (
	"sync"

	"wisp/internal/wispval"
)

// Make builds an already-settled promise wrapping v.
func Make(v wispval.Value) *wispval.Promise {
	return &wispval.Promise{Kind: wispval.PromiseEager, Payload: v}
}

// MakeLazy builds a promise that calls thunk the first time it is
// forced. thunk may itself return another promise (the delay-force
// idiom), in which case Force continues the walk through it instead of
// treating the inner promise as an ordinary value.
func MakeLazy(thunk func() (wispval.Value, error)) *wispval.Promise {
	return &wispval.Promise{Kind: wispval.PromiseLazy, Thunk: thunk}
}

// mu serialises forcing across all promises. A single process-wide lock
// is coarser than per-promise locking, but promise forcing is expected
// to be rare and fast relative to the arithmetic this core otherwise
// does, and it sidesteps the question of which of several concurrent
// forcers of the same lazy-splice chain "wins", the last writer wins,
// and every writer computes an equivalent result per the Force contract.
var mu sync.Mutex

// Force walks p's lazy chain iteratively: while p is lazy, call its
// thunk; if the result is an ordinary value (or an already-settled
// promise), install it into p and return; if the result is itself a
// lazy promise, splice p to point at it and loop. This keeps stack
// depth constant no matter how many delay-force forms were chained
// together to build p.
func Force(p *wispval.Promise) (wispval.Value, error) {
	mu.Lock()
	defer mu.Unlock()

	for p.Kind == wispval.PromiseLazy {
		thunk := p.Thunk
		v, err := thunk()
		if err != nil {
			return nil, err
		}

		if inner, ok := v.(*wispval.Promise); ok {
			if inner.Kind == wispval.PromiseEager {
				settle(p, inner.Payload)
				return p.Payload, nil
			}
			// inner is itself lazy: splice p onto inner's thunk and
			// continue the loop on p, rather than recursing into Force.
			p.Thunk = inner.Thunk
			continue
		}

		settle(p, v)
	}
	return p.Payload, nil
}

func settle(p *wispval.Promise, v wispval.Value) {
	p.Kind = wispval.PromiseEager
	p.Payload = v
	p.Thunk = nil
}

// EndOfSequence re-exports wispval.EndOfSequence, the sentinel a
// generator thunk returns to signal that no further elements follow.
var EndOfSequence = wispval.EndOfSequence

// GeneratorToLazySeq wraps a thunk that yields successive elements (or
// EndOfSequence) as a lazy-pair sequence: the first inspection of the
// result's tail drives exactly one call to gen, and the outcome is
// memoised by the tail's own Promise, so repeated inspection never calls
// gen twice for the same position.
func GeneratorToLazySeq(gen func() (wispval.Value, error)) (wispval.Value, error) {
	v, err := gen()
	if err != nil {
		return nil, err
	}
	if v == EndOfSequence {
		return wispval.EmptyList, nil
	}
	return &wispval.LazyPair{
		Car:  v,
		Tail: MakeLazy(func() (wispval.Value, error) { return GeneratorToLazySeq(gen) }),
	}, nil
}

// Car returns the realised head of a lazy or ordinary pair.
func Car(v wispval.Value) (wispval.Value, error) {
	switch p := v.(type) {
	case *wispval.Pair:
		return p.Car, nil
	case *wispval.LazyPair:
		return p.Car, nil
	default:
		return nil, errNotPair
	}
}

// Cdr forces a lazy pair's tail (memoised thereafter on the pair's own
// Tail promise) or returns an already-realised pair's Cdr unchanged.
func Cdr(v wispval.Value) (wispval.Value, error) {
	switch p := v.(type) {
	case *wispval.Pair:
		return p.Cdr, nil
	case *wispval.LazyPair:
		return Force(p.Tail)
	default:
		return nil, errNotPair
	}
}

// IsPair reports whether v is a realised pair or a not-yet-forced lazy
// pair; forcing is not required to answer this, since a LazyPair always
// has a realised Car and is known to be pair-shaped by construction.
func IsPair(v wispval.Value) bool {
	switch v.(type) {
	case *wispval.Pair, *wispval.LazyPair:
		return true
	default:
		return false
	}
}

type notPairError struct{}

func (notPairError) Error() string { return "promise: value is not a pair" }

var errNotPair = notPairError{}
