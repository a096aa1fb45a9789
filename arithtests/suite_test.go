package arithtests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/dispatch"
	"github.com/calc-api/contract-tests/framework"
	"github.com/calc-api/contract-tests/report"
	"github.com/calc-api/contract-tests/verify"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	finished []report.CaseResult
	summary  *report.RunSummary
	lock     sync.Mutex
}

func (l *recordingTestLogger) CaseFinished(result report.CaseResult) {
	l.lock.Lock()
	l.finished = append(l.finished, result)
	l.lock.Unlock()
}

func (l *recordingTestLogger) RunFinished(summary report.RunSummary) {
	l.summary = &summary
}

func defaultRegistry(t *testing.T) *cases.Registry {
	r, err := cases.NewRegistry(cases.DefaultCases()...)
	require.NoError(t, err)
	return r
}

func run(t *testing.T, ctx context.Context, config Config, registry *cases.Registry) (report.RunSummary, *recordingTestLogger) {
	t.Helper()
	logger := &recordingTestLogger{}
	summary, err := RunTestSuite(ctx, config, registry, logger)
	require.NoError(t, err)
	return summary, logger
}

func kinds(summary report.RunSummary) []verify.Kind {
	var ret []verify.Kind
	for _, r := range summary.Results {
		ret = append(ret, r.Outcome.Kind)
	}
	return ret
}

func descriptions(results []report.CaseResult) []string {
	var ret []string
	for _, r := range results {
		ret = append(ret, r.Case.Description)
	}
	return ret
}

func TestAllCasesPass(t *testing.T) {
	httphelpers.WithServer(&mockTarget{}, func(server *httptest.Server) {
		summary, logger := run(t, context.Background(), Config{Config: dispatch.Config{BaseURL: server.URL}},
			defaultRegistry(t))

		assert.Equal(t, []verify.Kind{verify.Pass, verify.Pass, verify.Pass, verify.Pass}, kinds(summary))
		assert.Equal(t, "4/4 tests passed", summary.String())
		assert.True(t, summary.OK())
		require.NotNil(t, logger.summary)
		assert.Equal(t, summary, *logger.summary)
	})
}

func TestSeededWrongResultIsValueMismatch(t *testing.T) {
	httphelpers.WithServer(&mockTarget{multiplyOffset: 1}, func(server *httptest.Server) {
		summary, logger := run(t, context.Background(), Config{Config: dispatch.Config{BaseURL: server.URL}},
			defaultRegistry(t))

		assert.Equal(t, []verify.Kind{verify.Pass, verify.Pass, verify.ValueMismatch, verify.Pass}, kinds(summary))
		mismatch := summary.Results[2].Outcome
		assert.Equal(t, 4, mismatch.Expected)
		assert.Equal(t, 5, mismatch.Actual)
		assert.Equal(t, 3, summary.Passed)
		assert.Equal(t, 4, summary.Total)
		assert.False(t, summary.OK())

		assert.Equal(t, descriptions(summary.Results), descriptions(logger.finished))
	})
}

func TestNegativeOperand(t *testing.T) {
	httphelpers.WithServer(&mockTarget{}, func(server *httptest.Server) {
		registry, err := cases.NewRegistry(cases.TestCase{
			Endpoint:    cases.NewEndpoint("/add", cases.Param("a", -1), cases.Param("b", 1)),
			Expected:    0,
			Description: "add(-1,1)",
		})
		require.NoError(t, err)
		summary, _ := run(t, context.Background(), Config{Config: dispatch.Config{BaseURL: server.URL}}, registry)
		assert.Equal(t, []verify.Kind{verify.Pass}, kinds(summary))
	})
}

func TestPathEmbeddedOperands(t *testing.T) {
	httphelpers.WithServer(&mockTarget{}, func(server *httptest.Server) {
		var cs []cases.TestCase
		for _, raw := range []string{"/add/2/2", "/subtract/2/2", "/multiply/2/2"} {
			e, err := cases.ParseEndpoint(raw)
			require.NoError(t, err)
			cs = append(cs, cases.TestCase{Endpoint: e, Description: raw})
		}
		cs[0].Expected, cs[1].Expected, cs[2].Expected = 4, 0, 4
		registry, err := cases.NewRegistry(cs...)
		require.NoError(t, err)

		summary, _ := run(t, context.Background(), Config{Config: dispatch.Config{BaseURL: server.URL}}, registry)
		assert.True(t, summary.OK())
	})
}

func TestTargetNotRunning(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	for _, concurrency := range []int{1, 4} {
		summary, logger := run(t, context.Background(), Config{
			Config:      dispatch.Config{BaseURL: server.URL, Timeout: time.Second},
			Concurrency: concurrency,
		}, defaultRegistry(t))

		assert.Equal(t, []verify.Kind{verify.TransportError, verify.TransportError, verify.TransportError,
			verify.TransportError}, kinds(summary))
		assert.Equal(t, "0/4 tests passed", summary.String())
		assert.False(t, summary.OK())
		assert.Len(t, logger.finished, 4)
		assert.NotNil(t, logger.summary)
	}
}

func TestServerErrorAffectsOnlyOneCase(t *testing.T) {
	target := &mockTarget{failStatus: map[string]int{"subtract": 500}}
	httphelpers.WithServer(target, func(server *httptest.Server) {
		summary, _ := run(t, context.Background(), Config{Config: dispatch.Config{BaseURL: server.URL}},
			defaultRegistry(t))

		assert.Equal(t, []verify.Kind{verify.Pass, verify.SchemaError, verify.Pass, verify.Pass}, kinds(summary))
		assert.Equal(t, 500, summary.Results[1].Outcome.StatusCode)
		assert.Equal(t, 3, summary.Passed)
		assert.False(t, summary.OK())
	})
}

func TestTimeoutIsTransportErrorAndRunContinues(t *testing.T) {
	target := &mockTarget{delay: func(op string, a, b int) time.Duration {
		if op == "subtract" {
			return time.Millisecond * 500
		}
		return 0
	}}
	httphelpers.WithServer(target, func(server *httptest.Server) {
		summary, _ := run(t, context.Background(), Config{
			Config: dispatch.Config{BaseURL: server.URL, Timeout: time.Millisecond * 100},
		}, defaultRegistry(t))

		assert.Equal(t, []verify.Kind{verify.Pass, verify.TransportError, verify.Pass, verify.Pass}, kinds(summary))
		assert.True(t, dispatch.IsTimeout(summary.Results[1].Outcome.Err))
	})
}

func TestRunIsRepeatable(t *testing.T) {
	httphelpers.WithServer(&mockTarget{multiplyOffset: 1}, func(server *httptest.Server) {
		config := Config{Config: dispatch.Config{BaseURL: server.URL}}
		first, _ := run(t, context.Background(), config, defaultRegistry(t))
		second, _ := run(t, context.Background(), config, defaultRegistry(t))
		assert.Equal(t, first.Total, second.Total)
		assert.Equal(t, first.Passed, second.Passed)
		assert.Equal(t, kinds(first), kinds(second))
	})
}

func TestConcurrentRunReportsInRegistryOrder(t *testing.T) {
	// Earlier cases are slower, so they complete last.
	target := &mockTarget{delay: func(op string, a, b int) time.Duration {
		return time.Duration(10-a) * time.Millisecond * 20
	}}
	var cs []cases.TestCase
	for a := 1; a <= 8; a++ {
		cs = append(cs, cases.TestCase{
			Endpoint:    cases.NewEndpoint("/add", cases.Param("a", a), cases.Param("b", 1)),
			Expected:    a + 1,
			Description: fmt.Sprintf("add(%d,1)", a),
		})
	}
	registry, err := cases.NewRegistry(cs...)
	require.NoError(t, err)

	httphelpers.WithServer(target, func(server *httptest.Server) {
		summary, logger := run(t, context.Background(), Config{
			Config:      dispatch.Config{BaseURL: server.URL},
			Concurrency: 4,
		}, registry)

		assert.True(t, summary.OK())
		var expected []string
		for _, c := range cs {
			expected = append(expected, c.Description)
		}
		assert.Equal(t, expected, descriptions(summary.Results))
		assert.Equal(t, expected, descriptions(logger.finished))
		for i, r := range summary.Results {
			assert.Equal(t, i+1, r.Index)
		}
		assert.Greater(t, atomic.LoadInt32(&target.maxInFlight), int32(1))
		assert.LessOrEqual(t, atomic.LoadInt32(&target.maxInFlight), int32(4))
	})
}

func TestSequentialRunHasOneRequestInFlight(t *testing.T) {
	target := &mockTarget{delay: func(string, int, int) time.Duration { return time.Millisecond * 10 }}
	httphelpers.WithServer(target, func(server *httptest.Server) {
		summary, _ := run(t, context.Background(), Config{Config: dispatch.Config{BaseURL: server.URL}},
			defaultRegistry(t))
		assert.True(t, summary.OK())
		assert.Equal(t, int32(1), atomic.LoadInt32(&target.maxInFlight))
	})
}

func TestCancelledRunStopsBetweenCases(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	target := &mockTarget{onRequest: func(*http.Request) { cancel() }}

	httphelpers.WithServer(target, func(server *httptest.Server) {
		summary, logger := run(t, ctx, Config{Config: dispatch.Config{BaseURL: server.URL}}, defaultRegistry(t))

		// the case that was in flight when the run was cancelled still gets a full judgment
		assert.Equal(t, []verify.Kind{verify.Pass}, kinds(summary))
		assert.True(t, summary.Aborted)
		assert.False(t, summary.OK())
		assert.Len(t, logger.finished, 1)
		require.NotNil(t, logger.summary)
	})
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handler, requestsCh := httphelpers.RecordingHandler(&mockTarget{})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		for _, concurrency := range []int{1, 3} {
			summary, _ := run(t, ctx, Config{Config: dispatch.Config{BaseURL: server.URL}, Concurrency: concurrency},
				defaultRegistry(t))
			assert.Equal(t, 0, summary.Total)
			assert.True(t, summary.Aborted)
			assert.False(t, summary.OK())
		}
		assert.Len(t, requestsCh, 0)
	})
}

func TestInvalidConfigMakesNoRequests(t *testing.T) {
	logger := &recordingTestLogger{}
	_, err := RunTestSuite(context.Background(), Config{Config: dispatch.Config{BaseURL: "localhost:8000"}},
		defaultRegistry(t), logger)
	assert.Error(t, err)
	assert.Empty(t, logger.finished)
	assert.Nil(t, logger.summary)
}

func TestDebugOutputIsCapturedPerCase(t *testing.T) {
	httphelpers.WithServer(&mockTarget{}, func(server *httptest.Server) {
		var runLogger framework.CapturingLogger
		summary, _ := run(t, context.Background(), Config{
			Config:      dispatch.Config{BaseURL: server.URL},
			DebugLogger: &runLogger,
		}, defaultRegistry(t))

		require.NotEmpty(t, runLogger.Output())
		assert.Contains(t, runLogger.Output()[0].Message, "Running 4 test case(s) against "+server.URL)

		for _, r := range summary.Results {
			require.NotEmpty(t, r.DebugOutput)
			assert.Contains(t, r.DebugOutput[0].Message, "GET "+server.URL+r.Case.Endpoint.String())
			assert.Equal(t, "Outcome: "+r.Outcome.String(), r.DebugOutput[len(r.DebugOutput)-1].Message)
		}
	})
}
