// Package arithtests runs the contract test cases for the arithmetic service.
//
// A run takes every case from a registry, dispatches its request, judges the response, and
// records the outcome, producing a report.RunSummary. The lower-level pieces are in the
// cases, dispatch, verify, and report packages.
package arithtests
