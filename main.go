package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/calc-api/contract-tests/arithtests"
	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/dispatch"
	"github.com/calc-api/contract-tests/framework"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(status)
}

// run is the whole command. It returns 0 only if every selected test case passed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var params commandParams
	if err := params.Read(args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if params.noColor {
		color.NoColor = true
	}

	var source cases.Source = cases.Literal(cases.DefaultCases())
	if params.casesFile != "" {
		source = cases.File(params.casesFile)
	}
	registry, err := cases.LoadRegistry(source)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid test cases:\n%s\n", err)
		return 1
	}

	framework.PrintFilterDescription(stdout, params.filters)
	registry = registry.Select(params.filters.AsFilter)
	if registry.Len() == 0 {
		fmt.Fprintln(stderr, "No test cases were selected")
		return 1
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(stdout, "", log.LstdFlags)
	}

	if params.wait > 0 {
		if err := dispatch.AwaitTarget(ctx, params.serviceURL, params.wait, stdout); err != nil {
			fmt.Fprintf(stdout, "Target service is not responding: %s\n", err)
		}
		fmt.Fprintln(stdout)
	}

	fmt.Fprintln(stdout, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	config := arithtests.Config{
		Config: dispatch.Config{
			BaseURL: params.serviceURL,
			Timeout: params.timeout,
			Retries: params.retries,
		},
		Concurrency: params.concurrency,
		DebugLogger: mainDebugLogger,
	}

	summary, err := arithtests.RunTestSuite(ctx, config, registry, testLogger)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid parameters: %s\n", err)
		return 1
	}
	if !summary.OK() {
		return 1
	}
	return 0
}
