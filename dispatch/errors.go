package dispatch

import "fmt"

// TransportError means the target could not be reached or did not respond in time.
type TransportError struct {
	Description string
	URL         string
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request to %s failed: %s", e.Description, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SchemaError means the target responded, but not in the form the contract requires: wrong
// status, unparseable body, or a missing or mistyped field.
type SchemaError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
