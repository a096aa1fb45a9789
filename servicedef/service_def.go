// Package servicedef describes the contract of the arithmetic service under test, as the
// harness sees it.
package servicedef

import "net/http"

const (
	// DefaultHost and DefaultPort make up the address the harness uses when no -url is given.
	DefaultHost = "localhost"
	DefaultPort = 8000

	// DefaultBaseURL is the loopback address of a locally started target.
	DefaultBaseURL = "http://localhost:8000"

	// ResultKey is the key of the integer result in the JSON object returned by every
	// arithmetic endpoint.
	ResultKey = "result"

	// SuccessStatus is the only status code that counts as a successful computation.
	SuccessStatus = http.StatusOK
)

// Paths of the operations exposed by the target. Operands go either in the query string
// (a and b) or in the path (/add/2/2).
const (
	PathAdd      = "/add"
	PathSubtract = "/subtract"
	PathMultiply = "/multiply"
)

// Names of the query parameters used for the two operands.
const (
	ParamA = "a"
	ParamB = "b"
)
