// Package proptest runs the universal laws and seed scenarios this
// runtime core is expected to satisfy as randomised property checks,
// using a small suite/case/result/runner shape adapted from the
// teacher's test framework. Unlike that framework (built to drive a
// scripted language's own test files), every case here is a plain Go
// closure generating random operands and checking an invariant against
// the numeric, numio, contin, and condition packages directly.
package proptest

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/kr/pretty"
)

// Result is the outcome of running a single Case.
type Result struct {
	Name     string
	Passed   bool
	Duration time.Duration
	Err      error
}

// Case is one property or scenario check. Run receives a *rand.Rand
// seeded deterministically by the Runner (its Seed plus the case's
// index in the suite), so a failing case is reproducible from that seed.
type Case struct {
	Name  string
	Trials int // number of randomised trials; 1 for a fixed scenario
	Run   func(r *rand.Rand) error
}

// Suite is a named group of Cases, mirroring the teacher's TestSuite
// grouping but holding property checks instead of scripted test files.
type Suite struct {
	Name  string
	Cases []Case
}

// Add appends a case to the suite and returns the suite, for chaining.
func (s *Suite) Add(c Case) *Suite {
	s.Cases = append(s.Cases, c)
	return s
}

// Stats tallies a Runner's outcome across every suite it ran.
type Stats struct {
	Total, Passed, Failed int
	Elapsed               time.Duration
}

// Runner executes suites against a Reporter, using seed to derive a
// per-case deterministic *rand.Rand so failures are reproducible.
type Runner struct {
	Seed     int64
	Reporter Reporter
}

// NewRunner returns a Runner reporting to a TextReporter unless its
// Reporter field is replaced by the caller.
func NewRunner(seed int64) *Runner {
	return &Runner{Seed: seed, Reporter: NewTextReporter()}
}

// Run executes every case in suite, in order, reporting each result and
// folding it into the returned Stats.
func (run *Runner) Run(suite *Suite) Stats {
	var stats Stats
	runStart := time.Now()
	run.Reporter.StartSuite(suite)
	for i, c := range suite.Cases {
		start := time.Now()
		src := rand.NewSource(run.Seed + int64(i))
		r := rand.New(src)

		trials := c.Trials
		if trials <= 0 {
			trials = 1
		}

		var err error
		for t := 0; t < trials; t++ {
			if err = c.Run(r); err != nil {
				break
			}
		}

		res := Result{Name: c.Name, Passed: err == nil, Duration: time.Since(start), Err: err}
		stats.Total++
		if res.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
		run.Reporter.CaseDone(res)
	}
	stats.Elapsed = time.Since(runStart)
	run.Reporter.Summary(stats)
	return stats
}

// Diff renders a and b's structural difference via kr/pretty, for use
// in a Case's returned error when an expected/actual mismatch needs
// more than fmt.Errorf's %v to be legible.
func Diff(label string, want, got interface{}) error {
	d := pretty.Diff(want, got)
	if len(d) == 0 {
		return fmt.Errorf("%s: pretty.Diff reported no difference but values compared unequal", label)
	}
	return fmt.Errorf("%s:\n%s", label, strings.Join(d, "\n"))
}
