// Package framework contains the low-level pieces of test harness infrastructure that
// are not specific to any one kind of target service.
//
// It provides the Logger interface used for debug output, a CapturingLogger that
// collects debug output for a single test case so it can be shown only when that case
// fails, regex-based selection of which test cases to run, and a SortingQueue that
// puts results produced by concurrent workers back into their original order.
//
// The domain-specific code that knows what is being tested lives in other packages.
package framework
