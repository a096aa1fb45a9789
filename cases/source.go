package cases

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is anything that can produce an ordered list of test cases.
type Source interface {
	Load() ([]TestCase, error)
}

// Literal is a Source for cases defined in code.
type Literal []TestCase

func (l Literal) Load() ([]TestCase, error) {
	return append([]TestCase(nil), l...), nil
}

// File is a Source that reads cases from a YAML or JSON file. The file contains a "cases"
// list; each entry has an expected result, a description, and either an "endpoint" (a
// relative path that may include a query string) or a "path" plus a "query" list.
//
//	cases:
//	  - endpoint: /add?a=2&b=2
//	    expected: 4
//	    description: add(2,2)
//	  - path: /multiply
//	    query: [{name: a, value: "2"}, {name: b, value: "2"}]
//	    expected: 4
//	    description: multiply(2,2)
type File string

type caseFile struct {
	Cases []caseFileEntry `yaml:"cases"`
}

type caseFileEntry struct {
	Endpoint    string       `yaml:"endpoint"`
	Path        string       `yaml:"path"`
	Query       []QueryParam `yaml:"query"`
	Expected    *yaml.Node   `yaml:"expected"`
	Description string       `yaml:"description"`
}

func (f File) Load() ([]TestCase, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}
	cases, err := parseCaseFile(data)
	if err != nil {
		return nil, fmt.Errorf("case file %s: %w", string(f), err)
	}
	return cases, nil
}

func parseCaseFile(data []byte) ([]TestCase, error) {
	var cf caseFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCases
		}
		return nil, fmt.Errorf("parse: %w", err)
	}

	var errs []error
	ret := make([]TestCase, 0, len(cf.Cases))
	for i, entry := range cf.Cases {
		c, err := entry.toTestCase()
		if err != nil {
			errs = append(errs, &InvalidCaseError{Index: i + 1, Description: entry.Description, Err: err})
			continue
		}
		ret = append(ret, c)
	}
	if len(errs) != 0 {
		return nil, errors.Join(errs...)
	}
	return ret, nil
}

func (e caseFileEntry) toTestCase() (TestCase, error) {
	expected, err := e.expectedValue()
	if err != nil {
		return TestCase{}, err
	}
	var endpoint Endpoint
	switch {
	case e.Endpoint != "" && (e.Path != "" || len(e.Query) != 0):
		return TestCase{}, errors.New(`"endpoint" cannot be combined with "path" or "query"`)
	case e.Endpoint != "":
		parsed, err := ParseEndpoint(e.Endpoint)
		if err != nil {
			return TestCase{}, err
		}
		endpoint = parsed
	case e.Path != "":
		endpoint = NewEndpoint(e.Path, e.Query...)
	default:
		return TestCase{}, errors.New(`either "endpoint" or "path" is required`)
	}
	return TestCase{Endpoint: endpoint, Expected: expected, Description: e.Description}, nil
}

// expectedValue accepts only integer scalars. Decoding straight into an int would truncate
// a value like 4.9 instead of rejecting it.
func (e caseFileEntry) expectedValue() (int, error) {
	node := e.Expected
	if node == nil || node.ShortTag() == "!!null" {
		return 0, errors.New("expected result is missing")
	}
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return 0, fmt.Errorf("expected result %q is not an integer", node.Value)
	}
	var n int
	if err := node.Decode(&n); err != nil {
		return 0, fmt.Errorf("expected result %q is not a valid integer: %w", node.Value, err)
	}
	return n, nil
}
