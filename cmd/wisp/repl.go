package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"wisp/internal/shell"
)

// runRepl reads forms from stdin one at a time and prints each result,
// sharing one Evaluator (and so one runtime context, one dynamic-wind
// tree, one handler stack) across the whole session. The prompt is
// suppressed when stdin isn't a terminal, so piping a script of forms
// into wisp repl doesn't interleave ">>> " into the output.
func runRepl() {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	ev := shell.New(os.Stdout)
	env := shell.Env{}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(">>> ")
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" || line == "(exit)" {
			return
		}
		if line == "" {
			continue
		}

		form, _, ok, err := shell.Read(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			continue
		}
		if !ok {
			continue
		}

		v, err := ev.Eval(form, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(shell.Format(v))
	}
}
