package shell

import (
	"fmt"
	"io"

	"wisp/internal/condition"
	"wisp/internal/numio"
	"wisp/internal/promise"
	"wisp/internal/vmctx"
	"wisp/internal/wispval"
)

// Env is a lexical environment: symbol name to bound value. Extending it
// copies the map rather than chaining frames, which is fine at the scale
// a command-line demo runs at and keeps the evaluator free of any
// mutable-capture subtlety.
type Env map[string]wispval.Value

// Evaluator holds the state one REPL session or eval invocation shares
// across forms: the runtime context guard/dynamic-wind/raise dispatch
// through, and the stream display/newline write to.
type Evaluator struct {
	VM  *vmctx.Context
	Out io.Writer
}

// New returns an Evaluator over a fresh runtime context.
func New(out io.Writer) *Evaluator {
	return &Evaluator{VM: vmctx.New(), Out: out}
}

// Eval evaluates one form. Numbers, strings and booleans are
// self-evaluating; a symbol resolves against env if bound, and otherwise
// evaluates to itself (there is no global define in this shell, so an
// unbound symbol is taken to name itself, the way a bare quoted literal
// would).
func (e *Evaluator) Eval(form wispval.Value, env Env) (wispval.Value, error) {
	switch v := form.(type) {
	case wispval.Fixnum, *wispval.Bignum, *wispval.Rational, wispval.Flonum, *wispval.Compnum,
		wispval.Boolean, wispval.String:
		return v, nil
	case wispval.Symbol:
		if bound, ok := env[v.Name]; ok {
			return bound, nil
		}
		return v, nil
	case *wispval.Pair:
		return e.evalList(v, env)
	default:
		if form == wispval.EmptyList {
			return form, nil
		}
		return form, nil
	}
}

func listSlice(v wispval.Value) ([]wispval.Value, bool) {
	var items []wispval.Value
	for {
		if v == wispval.EmptyList {
			return items, true
		}
		p, ok := v.(*wispval.Pair)
		if !ok {
			return nil, false
		}
		items = append(items, p.Car)
		v = p.Cdr
	}
}

func (e *Evaluator) evalList(p *wispval.Pair, env Env) (wispval.Value, error) {
	items, ok := listSlice(p)
	if !ok {
		return nil, fmt.Errorf("cannot evaluate an improper list")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cannot evaluate ()")
	}

	if head, ok := items[0].(wispval.Symbol); ok {
		if fn, ok := specialForms[head.Name]; ok {
			return fn(e, items[1:], env)
		}
	}

	fn, err := e.Eval(items[0], env)
	if err != nil {
		return nil, err
	}
	headSym, ok := fn.(wispval.Symbol)
	if !ok {
		return nil, fmt.Errorf("%v is not a procedure or special form", items[0])
	}
	prim, ok := primitives[headSym.Name]
	if !ok {
		return nil, fmt.Errorf("unbound procedure %q", headSym.Name)
	}

	args := make([]wispval.Value, len(items)-1)
	for i, a := range items[1:] {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return prim(e, args)
}

type specialForm func(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error)

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"quote":        sfQuote,
		"if":           sfIf,
		"begin":        sfBegin,
		"display":      sfDisplay,
		"newline":      sfNewline,
		"raise":        sfRaise,
		"guard":        sfGuard,
		"dynamic-wind": sfDynamicWind,
		"delay":        sfDelay,
		"force":        sfForce,
	}
}

func sfQuote(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("quote takes exactly one form")
	}
	return args[0], nil
}

func sfIf(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, fmt.Errorf("if takes a test, a consequent and an optional alternative")
	}
	test, err := e.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	if isTruthy(test) {
		return e.Eval(args[1], env)
	}
	if len(args) == 3 {
		return e.Eval(args[2], env)
	}
	return wispval.Unspecified, nil
}

func sfBegin(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	var result wispval.Value = wispval.Unspecified
	for _, a := range args {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func sfDisplay(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("display takes exactly one argument")
	}
	v, err := e.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(e.Out, Display(v))
	return wispval.Unspecified, nil
}

func sfNewline(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	fmt.Fprintln(e.Out)
	return wispval.Unspecified, nil
}

func sfRaise(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("raise takes exactly one argument")
	}
	v, err := e.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	return nil, e.VM.Raise(v)
}

// sfGuard implements (guard (var clause...) body...) where each clause is
// (test expr...) or (else expr...). Matching a clause binds var to the
// raised condition for the duration of both the test and the body, per
// R7RS; the `=>` recipient form is not supported, only a plain sequence
// of body expressions.
func sfGuard(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("guard takes a (var clause...) spec and a body")
	}
	spec, ok := listSlice(args[0])
	if !ok || len(spec) < 1 {
		return nil, fmt.Errorf("guard's first form must be (var clause...)")
	}
	varSym, ok := spec[0].(wispval.Symbol)
	if !ok {
		return nil, fmt.Errorf("guard's bound variable must be a symbol")
	}

	var clauses []condition.Clause
	var elseClause *condition.Clause
	for _, c := range spec[1:] {
		parts, ok := listSlice(c)
		if !ok || len(parts) < 1 {
			return nil, fmt.Errorf("malformed guard clause")
		}
		if sym, ok := parts[0].(wispval.Symbol); ok && sym.Name == "else" {
			body := parts[1:]
			elseClause = &condition.Clause{
				Body: func(testResult, cond wispval.Value) (wispval.Value, error) {
					childEnv := bind(env, varSym.Name, cond)
					return e.evalBody(body, childEnv)
				},
			}
			continue
		}
		testExpr, body := parts[0], parts[1:]
		clauses = append(clauses, condition.Clause{
			Test: func(cond wispval.Value) (wispval.Value, bool) {
				childEnv := bind(env, varSym.Name, cond)
				v, err := e.Eval(testExpr, childEnv)
				if err != nil || !isTruthy(v) {
					return nil, false
				}
				return v, true
			},
			Body: func(testResult, cond wispval.Value) (wispval.Value, error) {
				childEnv := bind(env, varSym.Name, cond)
				return e.evalBody(body, childEnv)
			},
		})
	}

	body := args[1:]
	return condition.Guard(e.VM.DW, e.VM.Handlers, clauses, elseClause, func() (wispval.Value, error) {
		return e.evalBody(body, env)
	})
}

func (e *Evaluator) evalBody(body []wispval.Value, env Env) (wispval.Value, error) {
	var result wispval.Value = wispval.Unspecified
	for _, f := range body {
		v, err := e.Eval(f, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func bind(env Env, name string, v wispval.Value) Env {
	child := make(Env, len(env)+1)
	for k, val := range env {
		child[k] = val
	}
	child[name] = v
	return child
}

// sfDynamicWind evaluates its three operands as plain expressions run in
// sequence at the before/body/after points, rather than as zero-argument
// procedures: this shell has no lambda, so "thunk" here means "expression
// evaluated for effect", which is enough to reproduce spec.md's
// connect/talk/disconnect trace from the command line.
func sfDynamicWind(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("dynamic-wind takes exactly three forms: before, body, after")
	}
	before, body, after := args[0], args[1], args[2]
	return e.VM.DynamicWind(
		func() (wispval.Value, error) { return e.Eval(before, env) },
		func() (wispval.Value, error) { return e.Eval(body, env) },
		func() (wispval.Value, error) { return e.Eval(after, env) },
	)
}

func sfDelay(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("delay takes exactly one form")
	}
	expr := args[0]
	return promise.MakeLazy(func() (wispval.Value, error) { return e.Eval(expr, env) }), nil
}

func sfForce(e *Evaluator, args []wispval.Value, env Env) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("force takes exactly one form")
	}
	v, err := e.Eval(args[0], env)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*wispval.Promise)
	if !ok {
		return v, nil // forcing a non-promise returns it unchanged, per R7RS
	}
	return promise.Force(p)
}

func isTruthy(v wispval.Value) bool {
	return v != wispval.Value(wispval.False)
}

// Display renders v the way (display v) would: numbers through numio,
// strings bare (no surrounding quotes), everything else through Format.
func Display(v wispval.Value) string {
	switch n := v.(type) {
	case wispval.String:
		return string(n)
	case wispval.Fixnum, *wispval.Bignum, *wispval.Rational, wispval.Flonum, *wispval.Compnum:
		return numio.Format(v, 10, false)
	case wispval.Boolean:
		if n {
			return "#t"
		}
		return "#f"
	case wispval.Symbol:
		return n.Name
	case *wispval.Pair:
		return Format(v)
	default:
		if v == wispval.EmptyList {
			return "()"
		}
		if v == wispval.Unspecified {
			return ""
		}
		return Format(v)
	}
}

// Format renders v as read-back-able text: a top-level result print,
// unlike Display, quotes strings and recurses into list elements through
// itself rather than Display, so a string nested inside a printed list
// stays distinguishable from a symbol.
func Format(v wispval.Value) string {
	switch n := v.(type) {
	case wispval.String:
		return fmt.Sprintf("%q", string(n))
	case *wispval.Pair:
		items, ok := listSlice(n)
		if !ok {
			return fmt.Sprintf("(%s . %s)", Format(n.Car), Format(n.Cdr))
		}
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = Format(it)
		}
		out := "("
		for i, p := range parts {
			if i > 0 {
				out += " "
			}
			out += p
		}
		return out + ")"
	case *wispval.SimpleCondition:
		return fmt.Sprintf("#<condition %s: %s>", n.Type.Name, n.Message)
	case *wispval.Promise:
		return "#<promise>"
	case wispval.Fixnum, *wispval.Bignum, *wispval.Rational, wispval.Flonum, *wispval.Compnum:
		return numio.Format(v, 10, false)
	case wispval.Boolean:
		if n {
			return "#t"
		}
		return "#f"
	case wispval.Symbol:
		return n.Name
	default:
		if v == wispval.EmptyList {
			return "()"
		}
		if v == wispval.Unspecified {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}
