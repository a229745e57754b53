package assets

import (
	"context"
	"strings"
	"time"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/httputil"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// HTTPLoader fetches icons from {base}/assets/icons/{name}.svg.
type HTTPLoader struct {
	base     string
	client   *httputil.Client
	attempts int
	delay    time.Duration
}

// HTTPOption configures an HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithClient sets the HTTP client.
func WithClient(c *httputil.Client) HTTPOption {
	return func(l *HTTPLoader) { l.client = c }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) HTTPOption {
	return func(l *HTTPLoader) { l.attempts, l.delay = attempts, delay }
}

// NewHTTPLoader creates a loader for an http or https base URL.
func NewHTTPLoader(base string, opts ...HTTPOption) (*HTTPLoader, error) {
	if err := apperr.ValidateURL(base); err != nil {
		return nil, err
	}
	l := &HTTPLoader{
		base:     strings.TrimRight(base, "/"),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = httputil.NewClient(map[string]string{"Accept": "image/svg+xml"})
	}
	return l, nil
}

// Source implements Fetcher.
func (l *HTTPLoader) Source() string { return l.base }

// URL returns where the icon for kind is fetched from.
func (l *HTTPLoader) URL(kind scene.IconKind) string {
	return l.base + "/" + kind.AssetPath()
}

// Fetch implements Fetcher.
func (l *HTTPLoader) Fetch(ctx context.Context, kind scene.IconKind) ([]byte, error) {
	var data []byte
	err := httputil.Retry(ctx, l.attempts, l.delay, func() error {
		var err error
		data, err = l.client.GetBytes(ctx, l.URL(kind))
		return err
	})
	if apperr.Is(err, apperr.ErrCodeNotFound) {
		return nil, apperr.Wrap(apperr.ErrCodeAssetNotFound, err, "icon %q", kind)
	}
	return data, err
}

// Load implements scene.Loader.
func (l *HTTPLoader) Load(ctx context.Context, kind scene.IconKind) (*scene.Asset, error) {
	return load(ctx, l, kind)
}
