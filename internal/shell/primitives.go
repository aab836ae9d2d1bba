package shell

import (
	"fmt"

	"wisp/internal/numeric"
	"wisp/internal/numio"
	"wisp/internal/promise"
	"wisp/internal/wispval"
)

type primitive func(e *Evaluator, args []wispval.Value) (wispval.Value, error)

var primitives map[string]primitive

func init() {
	primitives = map[string]primitive{
		"+":        foldArith(numeric.OpAdd, wispval.Fixnum(0)),
		"*":        foldArith(numeric.OpMul, wispval.Fixnum(1)),
		"-":        primSub,
		"/":        primDiv,
		"=":        chainCompare(func(c int) bool { return c == 0 }),
		"<":        chainCompare(func(c int) bool { return c < 0 }),
		">":        chainCompare(func(c int) bool { return c > 0 }),
		"<=":       chainCompare(func(c int) bool { return c <= 0 }),
		">=":       chainCompare(func(c int) bool { return c >= 0 }),
		"quotient":  primBinary(numeric.Quotient),
		"remainder": primBinary(numeric.Remainder),
		"modulo":    primBinary(numeric.Modulo),
		"gcd":       primBinary(numeric.Gcd),
		"expt":      primBinary(numeric.Expt),
		"abs":       primUnary(numeric.Abs),
		"exact":     primUnary(numeric.ToExact),
		"inexact":   primUnary(numeric.ToInexact),
		"cons":      primCons,
		"car":       primCar,
		"cdr":       primCdr,
		"list":      primList,
		"not":       primNot,
		"number?":   predicate(isNumber),
		"symbol?":   predicate(wispval.IsSymbol),
		"string?":   predicate(isString),
		"boolean?":  predicate(isBoolean),
		"pair?":     predicate(promise.IsPair),
		"null?":     predicate(func(v wispval.Value) bool { return v == wispval.EmptyList }),
		"number->string": primNumberToString,
		"string->number": primStringToNumber,
	}
}

func foldArith(op numeric.Op, identity wispval.Value) primitive {
	return func(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
		acc := identity
		for _, a := range args {
			v, err := numeric.Arith(op, acc, a)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	}
}

func primSub(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("- takes at least one argument")
	}
	if len(args) == 1 {
		return numeric.Arith(numeric.OpSub, wispval.Fixnum(0), args[0])
	}
	acc := args[0]
	for _, a := range args[1:] {
		v, err := numeric.Arith(numeric.OpSub, acc, a)
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func primDiv(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("/ takes at least one argument")
	}
	if len(args) == 1 {
		return numeric.Arith(numeric.OpDiv, wispval.Fixnum(1), args[0])
	}
	acc := args[0]
	for _, a := range args[1:] {
		v, err := numeric.Arith(numeric.OpDiv, acc, a)
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func chainCompare(accept func(cmp int) bool) primitive {
	return func(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
		if len(args) < 2 {
			return wispval.True, nil
		}
		for i := 0; i+1 < len(args); i++ {
			c, err := numeric.Compare(args[i], args[i+1])
			if err != nil {
				return nil, err
			}
			if !accept(c) {
				return wispval.False, nil
			}
		}
		return wispval.True, nil
	}
}

func primBinary(f func(a, b wispval.Value) (wispval.Value, error)) primitive {
	return func(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected exactly two arguments, got %d", len(args))
		}
		return f(args[0], args[1])
	}
}

func primUnary(f func(a wispval.Value) (wispval.Value, error)) primitive {
	return func(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected exactly one argument, got %d", len(args))
		}
		return f(args[0])
	}
}

func primCons(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("cons takes exactly two arguments")
	}
	return wispval.Cons(args[0], args[1]), nil
}

func primCar(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("car takes exactly one argument")
	}
	return promise.Car(args[0])
}

func primCdr(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("cdr takes exactly one argument")
	}
	return promise.Cdr(args[0])
}

func primList(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	return wispval.List(args...), nil
}

func primNot(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("not takes exactly one argument")
	}
	return wispval.Bool(!isTruthy(args[0])), nil
}

func predicate(test func(v wispval.Value) bool) primitive {
	return func(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected exactly one argument, got %d", len(args))
		}
		return wispval.Bool(test(args[0])), nil
	}
}

func isNumber(v wispval.Value) bool {
	switch v.(type) {
	case wispval.Fixnum, *wispval.Bignum, *wispval.Rational, wispval.Flonum, *wispval.Compnum:
		return true
	default:
		return false
	}
}

func isString(v wispval.Value) bool {
	_, ok := v.(wispval.String)
	return ok
}

func isBoolean(v wispval.Value) bool {
	_, ok := v.(wispval.Boolean)
	return ok
}

func primNumberToString(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("number->string takes one or two arguments")
	}
	radix := int64(10)
	if len(args) == 2 {
		n, ok := args[1].(wispval.Fixnum)
		if !ok {
			return nil, fmt.Errorf("number->string's radix must be an exact integer")
		}
		radix = int64(n)
	}
	return wispval.String(numio.Format(args[0], int(radix), false)), nil
}

func primStringToNumber(e *Evaluator, args []wispval.Value) (wispval.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("string->number takes one or two arguments")
	}
	s, ok := args[0].(wispval.String)
	if !ok {
		return nil, fmt.Errorf("string->number's first argument must be a string")
	}
	radix := 10
	if len(args) == 2 {
		n, ok := args[1].(wispval.Fixnum)
		if !ok {
			return nil, fmt.Errorf("string->number's radix must be an exact integer")
		}
		radix = int(n)
	}
	v, ok, err := numio.Parse([]byte(string(s)), radix, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return wispval.False, nil
	}
	return v, nil
}
