package cases

import (
	"errors"
	"fmt"
	"strings"
)

// TestCase is one request to make against the target, together with the integer result it
// should produce.
type TestCase struct {
	Endpoint    Endpoint
	Expected    int
	Description string
}

func (c TestCase) String() string {
	return c.Description
}

func (c TestCase) validate() error {
	var errs []error
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, errors.New("description is empty"))
	}
	if err := c.Endpoint.validate(); err != nil {
		errs = append(errs, fmt.Errorf("endpoint: %w", err))
	}
	return errors.Join(errs...)
}

func (c TestCase) clone() TestCase {
	c.Endpoint = c.Endpoint.clone()
	return c
}

// InvalidCaseError describes a test case that failed validation. Index is 1-based.
type InvalidCaseError struct {
	Index       int
	Description string
	Err         error
}

func (e *InvalidCaseError) Error() string {
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Sprintf("case %d: %s", e.Index, e.Err)
	}
	return fmt.Sprintf("case %d (%q): %s", e.Index, e.Description, e.Err)
}

func (e *InvalidCaseError) Unwrap() error {
	return e.Err
}
