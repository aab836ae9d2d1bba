// Package vmctx bundles the per-VM state a running evaluator needs,
// handler stack, dynamic-wind current node, and a few other fields that
// are genuinely per-VM, into a single context object threaded explicitly
// through primitives, instead of scattering it across package-level
// mutable globals. Process-wide state (the symbol table) stays where it
// is defined; only state scoped to one VM lives here.
package vmctx

import (
	"time"

	"github.com/google/uuid"

	"wisp/internal/condition"
	"wisp/internal/contin"
	"wisp/internal/wispval"
)

// Context is one virtual machine's runtime state. Multiple Contexts may
// run concurrently on separate OS threads (see Pool); nothing in a
// Context is shared with another.
type Context struct {
	ID uuid.UUID

	DW       *contin.State
	Handlers *condition.HandlerStack

	// diagnosticLog records output for this VM; a stand-in for the
	// current-output-port a full reader/writer would own, kept so
	// components that print (condition surfacing, a REPL) have somewhere
	// per-VM to write without a shared global.
	diagnosticLog []string

	// InterruptRequested is a cooperative-cancellation flag; no code in
	// this module reads or sets it. It is a plain bool, not atomic: only
	// this Context's own goroutine ever reads or writes it.
	InterruptRequested bool

	Created time.Time
}

// New returns a fresh Context positioned at the root dynamic extent with
// an empty handler stack.
func New() *Context {
	return &Context{
		ID:       uuid.New(),
		DW:       contin.NewState(),
		Handlers: condition.NewHandlerStack(),
		Created:  time.Now(),
	}
}

// Log appends a diagnostic line to this Context's output log.
func (c *Context) Log(line string) {
	c.diagnosticLog = append(c.diagnosticLog, line)
}

// Diagnostics returns this Context's accumulated log lines.
func (c *Context) Diagnostics() []string {
	return c.diagnosticLog
}

// DynamicWind and CallCC forward to the contin package bound to this
// Context's own dynamic-wind state, so callers holding a *Context never
// need to thread a *contin.State through separately.

func (c *Context) DynamicWind(before, body, after contin.Thunk) (wispval.Value, error) {
	return contin.DynamicWind(c.DW, before, body, after)
}

func (c *Context) CallCC(proc func(k *contin.Continuation) (wispval.Value, error)) (wispval.Value, error) {
	return contin.CallCC(c.DW, proc)
}

// Raise and Guard forward to the condition package bound to this
// Context's own handler stack and dynamic-wind state.

func (c *Context) Raise(cond wispval.Value) error {
	return condition.Raise(c.Handlers, cond)
}

func (c *Context) Guard(clauses []condition.Clause, elseClause *condition.Clause, body contin.Thunk) (wispval.Value, error) {
	return condition.Guard(c.DW, c.Handlers, clauses, elseClause, body)
}
