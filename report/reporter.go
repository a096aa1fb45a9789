package report

import (
	"sync"

	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/framework"
	"github.com/calc-api/contract-tests/verify"
)

// Reporter accumulates case results for a single run. Record may be called from several
// goroutines, but the caller is responsible for calling it in registry order.
type Reporter struct {
	testLogger TestLogger
	results    []CaseResult
	passed     int
	finalized  bool
	wasAborted bool
	lock       sync.Mutex
}

func New(testLogger TestLogger) *Reporter {
	if testLogger == nil {
		testLogger = NullTestLogger()
	}
	return &Reporter{testLogger: testLogger}
}

// Record adds the outcome of a case to the run and reports it. It panics if called after
// Finalize.
func (r *Reporter) Record(index int, c cases.TestCase, outcome verify.Outcome, debugOutput framework.CapturedOutput) {
	result := CaseResult{Index: index, Case: c, Outcome: outcome, DebugOutput: debugOutput}

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.finalized {
		panic("Reporter.Record was called after Finalize")
	}
	r.results = append(r.results, result)
	if outcome.Passed() {
		r.passed++
	}
	r.testLogger.CaseFinished(result)
}

// Finalize ends the run, reports the summary, and returns it. Partial failure is not an
// error; it shows up as Passed being less than Total. Calling Finalize again returns the
// same summary without reporting it again.
func (r *Reporter) Finalize(aborted bool) RunSummary {
	r.lock.Lock()
	defer r.lock.Unlock()
	summary := RunSummary{
		Total:   len(r.results),
		Passed:  r.passed,
		Results: append([]CaseResult(nil), r.results...),
		Aborted: aborted,
	}
	if r.finalized {
		summary.Aborted = r.wasAborted
		return summary
	}
	r.finalized = true
	r.wasAborted = aborted
	r.testLogger.RunFinished(summary)
	return summary
}
