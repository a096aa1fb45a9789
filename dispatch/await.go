package dispatch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const awaitPollInterval = time.Millisecond * 100

// AwaitTarget polls the base URL until the target service answers with any HTTP response,
// or until the timeout expires. The status code does not matter; a 404 from the root path
// still proves that the service is listening. Progress is written to output.
func AwaitTarget(ctx context.Context, baseURL string, timeout time.Duration, output io.Writer) error {
	if _, err := ParseBaseURL(baseURL); err != nil {
		return err
	}
	fmt.Fprintf(output, "Waiting for target service at %s", baseURL)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	client := &retryablehttp.Client{
		HTTPClient:   &http.Client{Timeout: awaitPollInterval * 10},
		RetryWaitMin: awaitPollInterval,
		RetryWaitMax: awaitPollInterval,
		RetryMax:     math.MaxInt32,
		RequestLogHook: func(retryablehttp.Logger, *http.Request, int) {
			fmt.Fprint(output, ".")
		},
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			if err != nil {
				lastErr = err
				return true, nil
			}
			return false, nil
		},
		Backoff: func(wait, _ time.Duration, _ int, _ *http.Response) time.Duration {
			return wait
		},
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		fmt.Fprintln(output)
		return err
	}
	resp, err := client.Do(req)
	fmt.Fprintln(output)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return fmt.Errorf("timed out after %s, result of last query was: %w", timeout, lastErr)
	}
	_ = resp.Body.Close()
	fmt.Fprintf(output, "Target service responded with status %d\n", resp.StatusCode)
	return nil
}
