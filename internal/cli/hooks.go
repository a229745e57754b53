package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapeboard/pkg/observability"
)

// logHooks reports library events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// installHooks routes scene, export, cache and HTTP events to logger.
func installHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetSceneHooks(h)
	observability.SetExportHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnMutation(op string, revision uint64) {
	h.logger.Debug("scene", "op", op, "rev", revision)
}

func (h logHooks) OnIconLoadStart(ctx context.Context, kind string) {
	h.logger.Debug("loading icon", "kind", kind)
}

func (h logHooks) OnIconLoadComplete(ctx context.Context, kind string, d time.Duration, err error) {
	if err != nil {
		return // the controller logs failures
	}
	h.logger.Debug("loaded icon", "kind", kind, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnExportStart(ctx context.Context, format string, scale float64) {
	h.logger.Debug("exporting", "format", format, "scale", scale)
}

func (h logHooks) OnExportComplete(ctx context.Context, format string, size int, cached bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("exported", "format", format, "bytes", size, "cached", cached, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "host", host, "path", path, "err", err)
}
