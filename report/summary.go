package report

import (
	"fmt"

	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/framework"
	"github.com/calc-api/contract-tests/verify"
)

// CaseResult is a recorded test case. Index is the 1-based position of the case in the
// registry that was run.
type CaseResult struct {
	Index       int
	Case        cases.TestCase
	Outcome     verify.Outcome
	DebugOutput framework.CapturedOutput
}

// RunSummary is the final result of a run. Results are in registry order.
//
// Aborted means the run was cancelled before every case was started; Total then counts only
// the cases that were recorded.
type RunSummary struct {
	Total   int
	Passed  int
	Results []CaseResult
	Aborted bool
}

// OK is true if the run completed and every case passed. The command-line driver exits with
// a non-zero status when this is false.
func (s RunSummary) OK() bool {
	return !s.Aborted && s.Passed == s.Total
}

func (s RunSummary) Failed() int {
	return s.Total - s.Passed
}

// Failures returns the results of the cases that did not pass.
func (s RunSummary) Failures() []CaseResult {
	var ret []CaseResult
	for _, r := range s.Results {
		if !r.Outcome.Passed() {
			ret = append(ret, r)
		}
	}
	return ret
}

// CountByKind returns how many cases ended with each kind of outcome.
func (s RunSummary) CountByKind() map[verify.Kind]int {
	ret := make(map[verify.Kind]int)
	for _, r := range s.Results {
		ret[r.Outcome.Kind]++
	}
	return ret
}

func (s RunSummary) String() string {
	ret := fmt.Sprintf("%d/%d tests passed", s.Passed, s.Total)
	if s.Aborted {
		ret += " (run aborted)"
	}
	return ret
}
