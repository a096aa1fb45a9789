package cases

import (
	"errors"
)

// ErrNoCases is returned by NewRegistry when it is given nothing to run.
var ErrNoCases = errors.New("no test cases were defined")

// Registry is an ordered, read-only collection of validated test cases. The order only
// matters for reporting.
type Registry struct {
	cases []TestCase
}

// NewRegistry validates the given cases and returns a Registry containing them. If any case
// is invalid, the returned error describes every invalid case, each as an *InvalidCaseError.
func NewRegistry(cases ...TestCase) (*Registry, error) {
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	var errs []error
	r := &Registry{cases: make([]TestCase, 0, len(cases))}
	for i, c := range cases {
		if err := c.validate(); err != nil {
			errs = append(errs, &InvalidCaseError{Index: i + 1, Description: c.Description, Err: err})
			continue
		}
		r.cases = append(r.cases, c.clone())
	}
	if len(errs) != 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// LoadRegistry reads cases from a Source and validates them.
func LoadRegistry(src Source) (*Registry, error) {
	cases, err := src.Load()
	if err != nil {
		return nil, err
	}
	return NewRegistry(cases...)
}

func (r *Registry) Len() int {
	return len(r.cases)
}

// Cases returns a copy of the cases in registry order.
func (r *Registry) Cases() []TestCase {
	ret := make([]TestCase, 0, len(r.cases))
	for _, c := range r.cases {
		ret = append(ret, c.clone())
	}
	return ret
}

// Select returns a Registry containing only the cases whose description passes the filter,
// in their original order. A nil filter selects everything. The result may be empty.
func (r *Registry) Select(filter func(description string) bool) *Registry {
	if filter == nil {
		return r
	}
	ret := &Registry{}
	for _, c := range r.cases {
		if filter(c.Description) {
			ret.cases = append(ret.cases, c)
		}
	}
	return ret
}
