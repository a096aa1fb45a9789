package dispatch

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestResponseGetInt(t *testing.T) {
	object := func(key string, value ldvalue.Value) Response {
		return Response{StatusCode: 200, Body: ldvalue.ObjectBuild().Set(key, value).Build()}
	}

	t.Run("integer", func(t *testing.T) {
		n, err := object("result", ldvalue.Int(-7)).GetInt("result")
		require.NoError(t, err)
		assert.Equal(t, -7, n)
	})

	t.Run("integral float", func(t *testing.T) {
		n, err := object("result", ldvalue.Float64(4)).GetInt("result")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	for name, resp := range map[string]Response{
		"missing key":    object("value", ldvalue.Int(4)),
		"fractional":     object("result", ldvalue.Float64(4.5)),
		"string":         object("result", ldvalue.String("4")),
		"null":           object("result", ldvalue.Null()),
		"array body":     {StatusCode: 200, Body: ldvalue.ArrayOf(ldvalue.Int(4))},
		"null body":      {StatusCode: 200, Body: ldvalue.Null()},
		"nested object":  object("result", ldvalue.ObjectBuild().Set("value", ldvalue.Int(4)).Build()),
		"boolean result": object("result", ldvalue.Bool(true)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := resp.GetInt("result")
			var se *SchemaError
			require.True(t, errors.As(err, &se), "expected SchemaError, got %v", err)
			assert.Equal(t, 200, se.StatusCode)
		})
	}
}

func decodedResponse(t *testing.T, raw string) Response {
	t.Helper()
	var body ldvalue.Value
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return Response{StatusCode: 200, Body: body, RawBody: []byte(raw)}
}

func TestResponseGetIntFromRawBody(t *testing.T) {
	for raw, expected := range map[string]int{
		`{"result": 9007199254740993}`:        9007199254740993,
		`{"result": -9007199254740993}`:       -9007199254740993,
		`{"result": 9223372036854775807}`:     math.MaxInt64,
		`{"result": 4.0}`:                     4,
		`{"result": 4e2}`:                     400,
		`{"other": 1.5, "result": 12}`:        12,
		`{"result": 0, "nested": {"a": [1]}}`: 0,
	} {
		t.Run(raw, func(t *testing.T) {
			n, err := decodedResponse(t, raw).GetInt("result")
			require.NoError(t, err)
			assert.Equal(t, expected, n)
		})
	}

	for _, raw := range []string{
		`{"result": 1e20}`,
		`{"result": 99999999999999999999}`,
		`{"result": -99999999999999999999}`,
		`{"result": 9223372036854775808}`,
		`{"result": 4.9}`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := decodedResponse(t, raw).GetInt("result")
			var se *SchemaError
			require.True(t, errors.As(err, &se), "expected SchemaError, got %v", err)
			assert.Equal(t, 200, se.StatusCode)
		})
	}
}

func TestReproduceCommandQuotesURL(t *testing.T) {
	assert.Equal(t, "curl -sS -i 'http://localhost:8000/add?a=1&b=2'",
		ReproduceCommand("http://localhost:8000/add?a=1&b=2"))
}
