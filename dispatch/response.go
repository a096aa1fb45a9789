package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is a completed HTTP response from the target. Body holds the decoded JSON; it is
// a null value if the body could not be decoded.
type Response struct {
	StatusCode int
	Body       ldvalue.Value
	RawBody    []byte
}

// maxExactFloat is the largest magnitude at which every integer has an exact float64
// representation.
const maxExactFloat = 1 << 53

// GetInt returns the integer stored under key in a JSON object body. If the body is not an
// object, the key is absent, or the value is not an integer, it returns a *SchemaError.
//
// The number is read from the raw body text when there is one, so integers that a float64
// cannot hold are compared exactly. Values that do not fit in an int are a *SchemaError.
func (r Response) GetInt(key string) (int, error) {
	if r.Body.Type() != ldvalue.ObjectType {
		return 0, &SchemaError{
			StatusCode: r.StatusCode,
			Reason:     fmt.Sprintf("response body is %s, not a JSON object", describeValue(r.Body)),
		}
	}
	if !hasKey(r.Body, key) {
		return 0, &SchemaError{
			StatusCode: r.StatusCode,
			Reason:     fmt.Sprintf("response body has no %q property: %s", key, r.Body.JSONString()),
		}
	}
	value := r.Body.GetByKey(key)
	notInteger := &SchemaError{
		StatusCode: r.StatusCode,
		Reason:     fmt.Sprintf("%q property is %s, not an integer", key, describeValue(value)),
	}
	if value.Type() != ldvalue.NumberType {
		return 0, notInteger
	}
	literal := r.numberLiteral(key)
	if literal == "" {
		literal = value.JSONString()
	}
	n, err := parseExactInt(literal)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, &SchemaError{
			StatusCode: r.StatusCode,
			Reason:     fmt.Sprintf("%q property %s is out of range for an integer", key, literal),
			Err:        err,
		}
	case err != nil:
		return 0, notInteger
	}
	return n, nil
}

// numberLiteral returns the text of the number stored under key in RawBody, or "" if the
// raw body is unavailable.
func (r Response) numberLiteral(key string) string {
	if len(r.RawBody) == 0 {
		return ""
	}
	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(r.RawBody))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return ""
	}
	if n, ok := fields[key].(json.Number); ok {
		return n.String()
	}
	return ""
}

// parseExactInt parses a JSON number that must denote an integer. Integral values written
// with a fraction or exponent, such as 4.0, are accepted while they are exactly
// representable.
func parseExactInt(literal string) (int, error) {
	n, err := strconv.ParseInt(literal, 10, strconv.IntSize)
	if err == nil {
		return int(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, strconv.ErrSyntax
	}
	if math.Abs(f) > maxExactFloat {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}

func hasKey(object ldvalue.Value, key string) bool {
	for _, k := range object.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func describeValue(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.NullType:
		return "null"
	case ldvalue.ObjectType, ldvalue.ArrayType:
		return fmt.Sprintf("%s %s", v.Type(), v.JSONString())
	default:
		return v.JSONString()
	}
}
