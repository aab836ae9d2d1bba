package vmctx

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work submitted to a Pool: it receives a fresh
// Context positioned at the root dynamic extent and runs to completion on
// its own goroutine.
type Task func(ctx context.Context, vm *Context) error

// Pool runs a fixed number of Tasks concurrently, each on its own
// goroutine with its own *Context, the "multiple VMs in parallel OS
// threads, no shared state except process-wide immutable caches" model.
// A Pool is single-use: Wait blocks until every submitted Task has
// returned; the first error cancels the context the other Tasks receive.
type Pool struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewPool returns a Pool bound to ctx. If limit is positive, at most
// limit Tasks run at once; zero or negative means unbounded.
func NewPool(ctx context.Context, limit int) *Pool {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	return &Pool{group: g, ctx: gctx}
}

// Go submits task to run on its own goroutine with a fresh Context. If
// the Pool was constructed with a limit, Go blocks until a slot is free.
func (p *Pool) Go(task Task) {
	p.group.Go(func() error {
		return task(p.ctx, New())
	})
}

// Wait blocks until every submitted Task has returned, and returns the
// first non-nil error any of them produced.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
