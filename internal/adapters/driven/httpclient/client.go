// Package httpclient provides the retrying HTTP client shared by the AI adapters.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/custodia-labs/sommelier/internal/logger"
)

// Default client settings.
const (
	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 500 * time.Millisecond
	DefaultRetryWaitMax = 10 * time.Second

	// maxErrorBody caps how much of an error response is kept in StatusError.
	maxErrorBody = 4096
)

// Options configures a client. Zero values use the defaults.
type Options struct {
	// Component tags log lines, e.g. "ollama-embedding".
	Component string

	// Timeout bounds a single attempt.
	Timeout time.Duration

	// RetryMax is the number of retries after the first attempt.
	// A negative value disables retries.
	RetryMax int

	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client is a JSON-over-HTTP client with retries on transient failures.
type Client struct {
	http      *retryablehttp.Client
	component string
}

// New creates a client.
func New(opts Options) *Client {
	retryMax := opts.RetryMax
	switch {
	case retryMax < 0:
		retryMax = 0
	case retryMax == 0:
		retryMax = DefaultRetryMax
	}
	waitMin := opts.RetryWaitMin
	if waitMin <= 0 {
		waitMin = DefaultRetryWaitMin
	}
	waitMax := opts.RetryWaitMax
	if waitMax <= 0 {
		waitMax = DefaultRetryWaitMax
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = opts.Timeout
	rc.RetryMax = retryMax
	rc.RetryWaitMin = waitMin
	rc.RetryWaitMax = max(waitMin, waitMax)
	rc.CheckRetry = RetryPolicy
	// Hand the last response back so callers can report the provider's error body.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger.NewLeveled(opts.Component)

	return &Client{http: rc, component: opts.Component}
}

// RetryPolicy retries connection errors, 429 and 5xx responses.
// Other 4xx responses are final: a bad key or an oversized prompt will not
// get better by asking again.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	Component  string
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Component, e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Component, e.StatusCode, e.Body)
}

// Do sends a request and returns the response body of a 2xx answer.
// payload, when non-nil, is encoded as the JSON request body.
func (c *Client) Do(
	ctx context.Context,
	method, url string,
	headers map[string]string,
	payload any,
) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	var reqBody any
	if body != nil {
		reqBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("%s: send request: %w", c.component, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.component, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, &StatusError{
			Component:  c.component,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(data)),
		}
	}
	return data, nil
}

// PostJSON sends payload and decodes the JSON answer into out.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	data, err := c.Do(ctx, http.MethodPost, url, headers, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.component, err)
	}
	return nil
}

// GetJSON issues a GET and decodes the JSON answer into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	data, err := c.Do(ctx, http.MethodGet, url, headers, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.component, err)
	}
	return nil
}

// Get issues a GET and discards the body. Adapters use it for Ping.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) error {
	_, err := c.Do(ctx, http.MethodGet, url, headers, nil)
	return err
}
