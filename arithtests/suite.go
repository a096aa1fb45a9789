package arithtests

import (
	"context"

	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/dispatch"
	"github.com/calc-api/contract-tests/framework"
	"github.com/calc-api/contract-tests/report"
	"github.com/calc-api/contract-tests/verify"

	"golang.org/x/sync/errgroup"
)

// Config contains everything a run needs apart from the cases themselves.
type Config struct {
	dispatch.Config

	// Concurrency is the maximum number of cases in flight at once. Values below 2 mean the
	// cases run one at a time. Either way, results are reported in registry order.
	Concurrency int

	// DebugLogger receives run-level debug messages. Per-case debug output is captured
	// separately and attached to each result.
	DebugLogger framework.Logger
}

type judgedCase struct {
	index       int
	testCase    cases.TestCase
	outcome     verify.Outcome
	debugOutput framework.CapturedOutput
}

// RunTestSuite runs every case in the registry against the target described by config.
//
// It returns an error only if config is invalid, in which case no request is made. Failing
// cases do not stop the run. If ctx is cancelled, no further cases are started, cases that
// are already in flight are allowed to finish, and the summary is marked as aborted.
func RunTestSuite(
	ctx context.Context,
	config Config,
	registry *cases.Registry,
	testLogger report.TestLogger,
) (report.RunSummary, error) {
	d, err := dispatch.New(config.Config)
	if err != nil {
		return report.RunSummary{}, err
	}
	debugLogger := config.DebugLogger
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	debugLogger.Printf("Running %d test case(s) against %s (timeout %s, concurrency %d)",
		registry.Len(), d.BaseURL(), d.Timeout(), config.Concurrency)

	reporter := report.New(testLogger)
	var aborted bool
	if config.Concurrency > 1 {
		aborted = runConcurrently(ctx, d, registry.Cases(), config.Concurrency, reporter)
	} else {
		aborted = runSequentially(ctx, d, registry.Cases(), reporter)
	}
	if aborted {
		debugLogger.Printf("Run was cancelled: %s", ctx.Err())
	}
	return reporter.Finalize(aborted), nil
}

func runSequentially(ctx context.Context, d *dispatch.Dispatcher, cs []cases.TestCase, reporter *report.Reporter) bool {
	for i, c := range cs {
		if ctx.Err() != nil {
			return true
		}
		j := runCase(ctx, d, i+1, c)
		reporter.Record(j.index, j.testCase, j.outcome, j.debugOutput)
	}
	return false
}

func runConcurrently(
	ctx context.Context,
	d *dispatch.Dispatcher,
	cs []cases.TestCase,
	concurrency int,
	reporter *report.Reporter,
) bool {
	queue := framework.NewSortingQueue[judgedCase](len(cs))
	recorded := make(chan struct{})
	go func() {
		defer close(recorded)
		for j := range queue.C {
			reporter.Record(j.index, j.testCase, j.outcome, j.debugOutput)
		}
	}()

	var aborted bool
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, c := range cs {
		if ctx.Err() != nil {
			aborted = true
			break
		}
		index, testCase := i+1, c
		g.Go(func() error {
			queue.Accept(index, runCase(ctx, d, index, testCase))
			return nil
		})
	}
	_ = g.Wait()
	queue.Close()
	<-recorded
	return aborted
}

// runCase takes one case from Pending to Judged. The request is detached from cancellation of
// the run, so that a case that has started is always judged on a complete dispatch; it is
// still bounded by the dispatcher's timeout.
func runCase(ctx context.Context, d *dispatch.Dispatcher, index int, c cases.TestCase) judgedCase {
	var debugLogger framework.CapturingLogger
	resp, err := d.Dispatch(context.WithoutCancel(ctx), c, &debugLogger)
	outcome := verify.Judge(c, resp, err)
	debugLogger.Printf("Outcome: %s", outcome)
	return judgedCase{
		index:       index,
		testCase:    c,
		outcome:     outcome,
		debugOutput: debugLogger.Output(),
	}
}
