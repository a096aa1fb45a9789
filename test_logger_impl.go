package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/calc-api/contract-tests/report"
	"github.com/calc-api/contract-tests/verify"

	"github.com/fatih/color"
)

var (
	passLabel    = color.New(color.FgGreen, color.Bold)
	failLabel    = color.New(color.FgRed, color.Bold)
	errorLabel   = color.New(color.FgYellow, color.Bold)
	summaryLabel = color.New(color.Bold)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) CaseFinished(result report.CaseResult) {
	o := result.Outcome
	name := fmt.Sprintf("[%d] %s", result.Index, result.Case.Description)
	switch o.Kind {
	case verify.Pass:
		fmt.Fprintf(c.Out, "%s %s\n", passLabel.Sprint("PASS"), name)
	case verify.ValueMismatch:
		fmt.Fprintf(c.Out, "%s %s\n", failLabel.Sprint("FAIL"), name)
		fmt.Fprintf(c.Out, "  expected %d, got %d\n", o.Expected, o.Actual)
	default:
		fmt.Fprintf(c.Out, "%s %s\n", errorLabel.Sprint("ERROR"), name)
		fmt.Fprintf(c.Out, "  expected %d, but got a %s:\n", o.Expected, o.Kind)
		for _, line := range strings.Split(o.Err.Error(), "\n") {
			fmt.Fprintf(c.Out, "    %s\n", line)
		}
	}
	failed := !o.Passed()
	if len(result.DebugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		result.DebugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) RunFinished(summary report.RunSummary) {
	fmt.Fprintln(c.Out)
	if failures := summary.Failures(); len(failures) > 0 {
		fmt.Fprintln(c.Out, "Failed tests:")
		for _, f := range failures {
			fmt.Fprintf(c.Out, "  [%d] %s (%s)\n", f.Index, f.Case.Description, f.Outcome.Kind)
		}
		fmt.Fprintln(c.Out)
	}
	label := passLabel
	if !summary.OK() {
		label = failLabel
	}
	fmt.Fprintf(c.Out, "%s %s\n", summaryLabel.Sprint("Result:"), label.Sprint(summary.String()))
}
