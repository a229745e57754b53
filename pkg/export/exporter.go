package export

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapeboard/pkg/cache"
	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/observability"
	"github.com/matzehuels/shapeboard/pkg/render"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

// DefaultFilename is the base name of exported files.
const DefaultFilename = "canvas"

// Artifact is a rendered export ready to be delivered.
type Artifact struct {
	Filename    string
	ContentType string
	Format      Format
	Scale       float64 // 1 for SVG
	Data        []byte
	Cached      bool
}

// Options configures an Exporter.
type Options struct {
	Filename   string      // base name without extension; default "canvas"
	MaxScale   float64     // default DefaultMaxScale
	Background scene.Color // canvas fill; empty keeps it transparent
}

// Exporter renders snapshots to artifacts.
type Exporter struct {
	opts   Options
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewExporter creates an Exporter. A nil cache disables artifact caching,
// a nil keyer uses the default keys and a nil logger uses log.Default().
func NewExporter(opts Options, c cache.Cache, keyer cache.Keyer, logger *log.Logger) (*Exporter, error) {
	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	if err := apperr.ValidateFilename(opts.Filename); err != nil {
		return nil, err
	}
	if !(opts.MaxScale > 0) {
		opts.MaxScale = DefaultMaxScale
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{opts: opts, cache: c, keyer: keyer, logger: logger}, nil
}

// Filename returns the file name used for format f.
func (e *Exporter) Filename(f Format) string {
	return e.opts.Filename + f.Ext()
}

// Export renders snap. SVG ignores scale; PNG rasterizes at the normalized
// scale.
func (e *Exporter) Export(ctx context.Context, snap scene.Snapshot, format Format, scale float64) (*Artifact, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if format == SVG {
		scale = 1
	} else {
		scale = normalizeScale(scale, e.opts.MaxScale)
	}

	hooks := observability.Export()
	hooks.OnExportStart(ctx, string(format), scale)
	start := time.Now()

	a, err := e.export(ctx, snap, format, scale)
	size := 0
	cached := false
	if a != nil {
		size, cached = len(a.Data), a.Cached
	}
	hooks.OnExportComplete(ctx, string(format), size, cached, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("exported", "file", a.Filename, "scale", scale, "bytes", size, "cached", cached)
	return a, nil
}

func (e *Exporter) export(ctx context.Context, snap scene.Snapshot, format Format, scale float64) (*Artifact, error) {
	a := &Artifact{
		Filename:    e.Filename(format),
		ContentType: format.ContentType(),
		Format:      format,
		Scale:       scale,
	}

	if format == SVG {
		a.Data = render.SVG(snap, render.WithSVGBackground(e.opts.Background))
		return a, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.keyer.ArtifactKey(fingerprint(snap), cache.ArtifactKeyOpts{
		Format:     string(format),
		Scale:      scale,
		Background: string(e.opts.Background),
	})
	cacheHooks := observability.Cache()
	if data, ok, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("artifact cache read failed", "err", err)
	} else if ok {
		cacheHooks.OnCacheHit(ctx, "artifact")
		a.Data, a.Cached = data, true
		return a, nil
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	data, err := render.PNG(snap, render.WithScale(scale), render.WithBackground(e.opts.Background))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "encode png")
	}
	a.Data = data

	if err := e.cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		e.logger.Warn("artifact cache write failed", "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return a, nil
}
