package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets testscript re-exec this test binary as the "wisp"
// command, so the scripts under testdata/script run against the real
// command dispatch in run rather than a mock.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"wisp": func() int { return run(os.Args[1:]) },
	}))
}

// TestScripts runs the seed scenarios from spec.md's testable-properties
// section as golden transcripts against the built wisp binary.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
