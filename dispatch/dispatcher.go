package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calc-api/contract-tests/cases"
	"github.com/calc-api/contract-tests/framework"

	"github.com/hashicorp/go-retryablehttp"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	DefaultTimeout      = time.Second * 5
	DefaultRetryWaitMin = time.Millisecond * 100
	DefaultRetryWaitMax = time.Second * 2

	maxBodySize     = 1 << 20
	maxLoggedLength = 500
)

// Config contains the parameters for a Dispatcher.
type Config struct {
	// BaseURL is the scheme, host, port, and optional path prefix of the target service.
	BaseURL string

	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Retries is how many more times a request is attempted after a transport failure.
	// Zero, the default, means exactly one attempt per case. Responses are never retried,
	// whatever their status.
	Retries int

	// RetryWaitMin and RetryWaitMax bound the exponential backoff between attempts. Zero
	// means the corresponding default.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Dispatcher issues requests for test cases against one target service.
type Dispatcher struct {
	baseURL    *url.URL
	httpClient *http.Client
	retries    int
	waitMin    time.Duration
	waitMax    time.Duration
}

// New validates the configuration and creates a Dispatcher.
func New(config Config) (*Dispatcher, error) {
	base, err := ParseBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", config.Timeout)
	}
	if config.Retries < 0 {
		return nil, fmt.Errorf("retries must not be negative, got %d", config.Retries)
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	d := &Dispatcher{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		retries:    config.Retries,
		waitMin:    config.RetryWaitMin,
		waitMax:    config.RetryWaitMax,
	}
	if d.waitMin <= 0 {
		d.waitMin = DefaultRetryWaitMin
	}
	if d.waitMax <= 0 {
		d.waitMax = DefaultRetryWaitMax
	}
	if d.waitMax < d.waitMin {
		d.waitMax = d.waitMin
	}
	return d, nil
}

// ParseBaseURL checks that s is an absolute http or https URL without a query or fragment.
func ParseBaseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", s)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: no host", s)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("invalid base URL %q: must not have a query or fragment", s)
	}
	return u, nil
}

func (d *Dispatcher) BaseURL() string {
	return d.baseURL.String()
}

func (d *Dispatcher) Timeout() time.Duration {
	return d.httpClient.Timeout
}

// RequestURL resolves an endpoint against the base URL. A path prefix in the base URL is
// kept, so a base of http://host/api and an endpoint of /add give http://host/api/add.
func (d *Dispatcher) RequestURL(e cases.Endpoint) string {
	u := *d.baseURL
	u.Path = strings.TrimSuffix(d.baseURL.Path, "/") + e.Path
	u.RawPath = ""
	u.RawQuery = e.EncodedQuery()
	return u.String()
}

// Dispatch sends the GET request for a test case and waits for the response or for the
// timeout. The request and response are written to logger.
//
// The returned error is either nil, a *TransportError (the Response is then empty), or a
// *SchemaError if the body was not valid JSON (the Response then has its status code and
// raw body).
func (d *Dispatcher) Dispatch(ctx context.Context, c cases.TestCase, logger framework.Logger) (Response, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	requestURL := d.RequestURL(c.Endpoint)
	logger.Printf("Sending request: GET %s", requestURL)
	logger.Printf("To reproduce: %s", ReproduceCommand(requestURL))

	transportError := func(err error) error {
		logger.Printf("Request failed: %s", err)
		return &TransportError{Description: c.Description, URL: requestURL, Err: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Response{}, transportError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.newRetryClient(logger).Do(req)
	if err != nil {
		return Response{}, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{}, transportError(fmt.Errorf("error reading response body: %w", err))
	}
	logger.Printf("Received response: status %d, body: %s", resp.StatusCode, truncate(string(raw)))

	ret := Response{StatusCode: resp.StatusCode, Body: ldvalue.Null(), RawBody: raw}
	var body ldvalue.Value
	if err := json.Unmarshal(raw, &body); err != nil {
		return ret, &SchemaError{
			StatusCode: resp.StatusCode,
			Reason:     "response body is not valid JSON",
			Err:        err,
		}
	}
	ret.Body = body
	return ret, nil
}

func (d *Dispatcher) newRetryClient(logger framework.Logger) *retryablehttp.Client {
	return &retryablehttp.Client{
		HTTPClient:   d.httpClient,
		Logger:       logger,
		RetryWaitMin: d.waitMin,
		RetryWaitMax: d.waitMax,
		RetryMax:     d.retries,
		CheckRetry:   retryTransportErrorsOnly,
		Backoff:      retryablehttp.DefaultBackoff,
	}
}

// retryTransportErrorsOnly never retries once a response has been received, since a 5xx
// status is a result to be judged rather than a connectivity problem.
func retryTransportErrorsOnly(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil, nil
}

// IsTimeout reports whether a dispatch error was caused by the request timing out.
func IsTimeout(err error) bool {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string) string {
	if len(s) <= maxLoggedLength {
		return s
	}
	return s[:maxLoggedLength] + "..."
}
