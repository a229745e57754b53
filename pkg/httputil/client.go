package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read. Icon assets are small.
const maxBody = 4 << 20

// Client performs GET requests with default headers.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client, e.g. with
// httptest.Server.Client() in tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a Client. Headers are applied to every request and
// may be nil.
func NewClient(headers map[string]string, opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: headers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBytes fetches rawURL and returns the body. Network failures and
// retryable statuses come back wrapped in [RetryableError]; a 404 maps to
// NOT_FOUND.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: apperr.Wrap(apperr.ErrCodeNetwork, err, "GET %s", rawURL)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &RetryableError{Err: apperr.Wrap(apperr.ErrCodeNetwork, err, "read %s", rawURL)}
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return apperr.New(apperr.ErrCodeNotFound, "%s not found", rawURL)
	case RetryableStatus(code):
		return &RetryableError{Err: apperr.New(apperr.ErrCodeNetwork, "GET %s: status %d", rawURL, code)}
	default:
		return apperr.New(apperr.ErrCodeNetwork, "GET %s: %s", rawURL, fmt.Sprint(code, " ", http.StatusText(code)))
	}
}
