// Package httputil provides the HTTP plumbing used to fetch remote icon
// assets.
//
// # Client
//
// [Client] performs GET requests with default headers, maps status codes
// to error codes from pkg/errors, and reports every request to the HTTP
// observability hooks:
//
//	c := httputil.NewClient(map[string]string{"User-Agent": "shapeboard"})
//	data, err := c.GetBytes(ctx, "https://cdn.example.com/assets/icons/star.svg")
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError].
// The client wraps network failures and 5xx responses this way, so callers
// typically write:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    data, err = c.GetBytes(ctx, url)
//	    return err
//	})
//
// Any other error (404, invalid URL, 4xx) is returned immediately.
package httputil
