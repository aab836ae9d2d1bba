package proptest

import (
	"fmt"

	"github.com/kr/text"
)

// Reporter receives a Runner's progress. Modeled on the teacher's
// TestReporter interface, trimmed to the events this package emits.
type Reporter interface {
	StartSuite(suite *Suite)
	CaseDone(res Result)
	Summary(stats Stats)
}

// TextReporter prints plain-text progress to stdout, indenting case
// lines under their suite the way the teacher's reporter does, minus
// the scripted-language-specific fields it has no equivalent of here.
type TextReporter struct{}

func NewTextReporter() *TextReporter { return &TextReporter{} }

func (r *TextReporter) StartSuite(suite *Suite) {
	fmt.Printf("== %s (%d cases) ==\n", suite.Name, len(suite.Cases))
}

func (r *TextReporter) CaseDone(res Result) {
	status := "ok  "
	if !res.Passed {
		status = "FAIL"
	}
	line := fmt.Sprintf("%s %s (%v)", status, res.Name, res.Duration)
	fmt.Println(text.Indent(line, "  "))
	if res.Err != nil {
		fmt.Println(text.Indent(res.Err.Error(), "      "))
	}
}

func (r *TextReporter) Summary(stats Stats) {
	fmt.Printf("-- %d/%d passed in %v\n", stats.Passed, stats.Total, stats.Elapsed)
}
