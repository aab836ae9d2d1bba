// cmd/wisp/main.go
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"r": "repl",
	"e": "eval",
	"v": "version",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is factored out of main so a testscript harness can invoke it as a
// re-exec'd subcommand without a real process exit.
func run(args []string) int {
	if len(args) == 0 {
		showUsage()
		return 1
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "version":
		showVersion()
	case "repl":
		runRepl()
	case "eval":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: wisp eval <forms>")
			return 1
		}
		if err := runEval(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "wisp: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "wisp: unknown command %q\n", args[0])
		showUsage()
		return 1
	}
	return 0
}

func showUsage() {
	fmt.Println("wisp - numeric tower, continuations and conditions")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wisp repl            Start an interactive session        (alias: r)")
	fmt.Println("  wisp eval <forms>    Evaluate forms, print the last value (alias: e)")
	fmt.Println("  wisp version         Print version information            (alias: v)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println(`  wisp eval '(/ 1 3)'`)
	fmt.Println(`  wisp eval '(expt 2 100)'`)
	fmt.Println(`  wisp eval '(guard (x ((symbol? x) (cons (quote symbol) x))) (raise (quote a)))'`)
}

func showVersion() {
	fmt.Printf("wisp %s\n", version)
}
