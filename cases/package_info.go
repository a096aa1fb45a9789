// Package cases holds the test cases that the harness runs: what to request, what result to
// expect, and a human-readable description of each.
//
// Cases are collected into a Registry, which validates them up front. A malformed case is
// the only condition that stops a run before any request is made.
package cases
