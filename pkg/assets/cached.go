package assets

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapeboard/pkg/cache"
	"github.com/matzehuels/shapeboard/pkg/observability"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// CachedLoader caches the raw bytes of an underlying Fetcher.
type CachedLoader struct {
	fetcher Fetcher
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	logger  *log.Logger
}

// NewCachedLoader wraps f. A nil cache disables caching, a nil keyer uses
// the default keys and a nil logger uses log.Default().
func NewCachedLoader(f Fetcher, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *CachedLoader {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CachedLoader{fetcher: f, cache: c, keyer: keyer, ttl: cache.AssetTTL, logger: logger}
}

// Source implements Fetcher.
func (l *CachedLoader) Source() string { return l.fetcher.Source() }

// Fetch returns cached bytes when present, otherwise fetches and stores
// them. Cache failures are logged and never fail the load.
func (l *CachedLoader) Fetch(ctx context.Context, kind scene.IconKind) ([]byte, error) {
	key := l.keyer.AssetKey(l.fetcher.Source(), string(kind))
	hooks := observability.Cache()

	data, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.logger.Warn("asset cache read failed", "kind", kind, "err", err)
	}
	if ok {
		hooks.OnCacheHit(ctx, "asset")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "asset")

	data, err = l.fetcher.Fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
		l.logger.Warn("asset cache write failed", "kind", kind, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "asset", len(data))
	}
	return data, nil
}

// Load implements scene.Loader. Bytes that fail to parse are evicted so a
// fixed upstream file is picked up on the next load.
func (l *CachedLoader) Load(ctx context.Context, kind scene.IconKind) (*scene.Asset, error) {
	asset, err := load(ctx, l, kind)
	if err != nil {
		_ = l.cache.Delete(ctx, l.keyer.AssetKey(l.fetcher.Source(), string(kind)))
	}
	return asset, err
}
