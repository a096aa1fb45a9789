// Package dispatch sends the HTTP request for a test case to the target service and hands
// back what came back, without judging it.
//
// A request that cannot be completed at all (connection refused, timeout, broken
// connection) produces a *TransportError. A response whose body is not valid JSON produces
// a *SchemaError, returned together with the Response so that its status code is still
// available.
package dispatch
