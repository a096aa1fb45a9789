// Package verify decides whether the response to a test case honors the target's contract
// and contains the expected result.
package verify

import (
	"errors"
	"fmt"

	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/dispatch"
	"github.com/calc-api/contract-tests/servicedef"
)

// Kind classifies an Outcome.
type Kind int

const (
	// Pass means the target returned exactly the expected result.
	Pass Kind = iota
	// ValueMismatch means the response honored the contract but the result was wrong.
	ValueMismatch
	// TransportError means the target could not be reached or did not answer in time.
	TransportError
	// SchemaError means the target answered, but with the wrong status or body shape.
	SchemaError
)

func (k Kind) String() string {
	switch k {
	case Pass:
		return "pass"
	case ValueMismatch:
		return "value mismatch"
	case TransportError:
		return "transport error"
	case SchemaError:
		return "schema error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the judgment for one test case.
//
// Expected is always set. Actual is only meaningful for Pass and ValueMismatch. StatusCode is
// set whenever a response was received. Err is set for TransportError and SchemaError.
type Outcome struct {
	Kind       Kind
	Expected   int
	Actual     int
	StatusCode int
	Err        error
}

func (o Outcome) Passed() bool {
	return o.Kind == Pass
}

func (o Outcome) String() string {
	switch o.Kind {
	case Pass:
		return fmt.Sprintf("got %d as expected", o.Actual)
	case ValueMismatch:
		return fmt.Sprintf("expected %d, got %d", o.Expected, o.Actual)
	default:
		return fmt.Sprintf("%s: %s", o.Kind, o.Err)
	}
}

// Judge classifies the result of dispatching a test case. It looks only at its arguments.
//
// err is what the dispatcher returned: nil, a *dispatch.TransportError, or a
// *dispatch.SchemaError for an undecodable body. A wrong status code takes precedence over an
// undecodable body, since error pages are often not JSON.
func Judge(c cases.TestCase, resp dispatch.Response, err error) Outcome {
	var schemaErr *dispatch.SchemaError
	if err != nil && !errors.As(err, &schemaErr) {
		return Outcome{Kind: TransportError, Expected: c.Expected, Err: err}
	}

	if resp.StatusCode != servicedef.SuccessStatus {
		return Outcome{
			Kind:       SchemaError,
			Expected:   c.Expected,
			StatusCode: resp.StatusCode,
			Err: &dispatch.SchemaError{
				StatusCode: resp.StatusCode,
				Reason:     fmt.Sprintf("unexpected status %d, expected %d", resp.StatusCode, servicedef.SuccessStatus),
			},
		}
	}
	if schemaErr != nil {
		return Outcome{Kind: SchemaError, Expected: c.Expected, StatusCode: resp.StatusCode, Err: schemaErr}
	}

	actual, err := resp.GetInt(servicedef.ResultKey)
	if err != nil {
		return Outcome{Kind: SchemaError, Expected: c.Expected, StatusCode: resp.StatusCode, Err: err}
	}
	if actual != c.Expected {
		return Outcome{Kind: ValueMismatch, Expected: c.Expected, Actual: actual, StatusCode: resp.StatusCode}
	}
	return Outcome{Kind: Pass, Expected: c.Expected, Actual: actual, StatusCode: resp.StatusCode}
}
