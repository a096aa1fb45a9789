package cases

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// QueryParam is a single query string parameter. Parameters are kept in a slice rather
// than a map so that the generated URL is the same every time.
type QueryParam struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Param is a shortcut for creating a QueryParam from any value that fmt can print.
func Param(name string, value interface{}) QueryParam {
	return QueryParam{Name: name, Value: fmt.Sprint(value)}
}

// Endpoint describes the request for a test case: a path relative to the target's base URL,
// plus optional query parameters. Operands can be embedded in the path (/add/2/2), passed as
// parameters, or both.
type Endpoint struct {
	Path  string
	Query []QueryParam
}

// NewEndpoint creates an Endpoint from a path and query parameters.
func NewEndpoint(path string, params ...QueryParam) Endpoint {
	return Endpoint{Path: path, Query: append([]QueryParam(nil), params...)}
}

// ParseEndpoint creates an Endpoint from a fully-formed relative path such as
// "/add?a=2&b=2". The order of the query parameters is preserved.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: must be a path relative to the base URL", raw)
	}
	if u.Fragment != "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: fragments are not allowed", raw)
	}
	e := Endpoint{Path: u.Path}
	if u.RawQuery != "" {
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			rawName, rawValue, _ := strings.Cut(pair, "=")
			name, err := url.QueryUnescape(rawName)
			if err != nil {
				return Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", raw, err)
			}
			value, err := url.QueryUnescape(rawValue)
			if err != nil {
				return Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", raw, err)
			}
			e.Query = append(e.Query, QueryParam{Name: name, Value: value})
		}
	}
	if err := e.validate(); err != nil {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	return e, nil
}

// EncodedQuery returns the URL-encoded query string, without a leading "?".
func (e Endpoint) EncodedQuery() string {
	parts := make([]string, 0, len(e.Query))
	for _, p := range e.Query {
		parts = append(parts, url.QueryEscape(p.Name)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// String returns the relative URL, such as "/add?a=2&b=2".
func (e Endpoint) String() string {
	u := url.URL{Path: e.Path, RawQuery: e.EncodedQuery()}
	return u.String()
}

func (e Endpoint) validate() error {
	if e.Path == "" {
		return errors.New("path is empty")
	}
	if !strings.HasPrefix(e.Path, "/") {
		return fmt.Errorf("path %q must begin with a slash", e.Path)
	}
	if strings.HasPrefix(e.Path, "//") {
		return fmt.Errorf("path %q must be relative to the base URL", e.Path)
	}
	if strings.ContainsAny(e.Path, "?#") {
		return fmt.Errorf("path %q must not contain a query or fragment; use query parameters instead", e.Path)
	}
	for i, p := range e.Query {
		if p.Name == "" {
			return fmt.Errorf("query parameter %d has no name", i+1)
		}
	}
	return nil
}

func (e Endpoint) clone() Endpoint {
	e.Query = append([]QueryParam(nil), e.Query...)
	return e
}
