package main

import (
	"fmt"
	"os"

	"wisp/internal/shell"
	"wisp/internal/wispval"
)

// runEval evaluates every form in text (allowing several forms in one
// argument, e.g. "(display 1) (newline)") against a fresh Evaluator and
// prints the last form's result.
func runEval(text string) error {
	ev := shell.New(os.Stdout)
	env := shell.Env{}

	rest := text
	var last wispval.Value = nil
	for {
		form, tail, ok, err := shell.Read(rest)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		v, err := ev.Eval(form, env)
		if err != nil {
			return err
		}
		last = v
		rest = tail
	}

	if last != nil {
		fmt.Println(shell.Format(last))
	}
	return nil
}
