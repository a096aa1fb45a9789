// Package report collects the outcome of every test case in a run and produces the run
// summary.
//
// The Reporter is the only part of the harness that produces output, which it does through
// a TestLogger. It never affects how cases are judged.
package report
