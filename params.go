package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/calc-api/contract-tests/dispatch"
	"github.com/calc-api/contract-tests/framework"
	"github.com/calc-api/contract-tests/servicedef"
)

type commandParams struct {
	serviceURL  string
	timeout     time.Duration
	retries     int
	concurrency int
	casesFile   string
	wait        time.Duration
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool
	noColor     bool
}

// Read parses the command line. On failure it writes the problem and the usage text to
// errOut and returns the error. A help request returns flag.ErrHelp.
func (c *commandParams) Read(args []string, errOut io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", servicedef.DefaultBaseURL, "base URL of the service under test")
	fs.DurationVar(&c.timeout, "timeout", dispatch.DefaultTimeout, "timeout for each request")
	fs.IntVar(&c.retries, "retries", 0, "number of times to retry a request after a connection failure or timeout")
	fs.IntVar(&c.concurrency, "concurrency", 1, "maximum number of requests in flight at once")
	fs.StringVar(&c.casesFile, "cases", "", "YAML or JSON file of test cases (default: built-in cases)")
	fs.DurationVar(&c.wait, "wait", 0, "wait up to this long for the service to start responding before running tests")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")

	if err := fs.Parse(args[1:]); err != nil {
		// the flag package has already printed the error and usage
		return err
	}
	if err := c.validate(); err != nil {
		fmt.Fprintln(errOut, err)
		fs.Usage()
		return err
	}
	return nil
}

func (c *commandParams) validate() error {
	if _, err := dispatch.ParseBaseURL(c.serviceURL); err != nil {
		return fmt.Errorf("-url: %w", err)
	}
	if c.timeout <= 0 {
		return errors.New("-timeout must be greater than zero")
	}
	if c.retries < 0 {
		return errors.New("-retries must not be negative")
	}
	if c.concurrency < 1 {
		return errors.New("-concurrency must be at least 1")
	}
	if c.wait < 0 {
		return errors.New("-wait must not be negative")
	}
	return nil
}
