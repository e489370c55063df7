package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellbars/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events at debug level, except
// failures which are warnings.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks for every hook family.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnColumnStart(_ context.Context, column string, rows int) {
	h.logger.Debug("column start", "column", column, "rows", rows)
}

func (h *logHooks) OnColumnComplete(_ context.Context, column string, stats observability.ColumnStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("column failed", "column", column, "error", err)
		return
	}
	if stats.Empty && stats.Rows > 0 {
		h.logger.Warn("column has no numeric values", "column", column)
	}
	h.logger.Debug("column done", "column", column,
		"rows", stats.Rows, "missing", stats.Missing, "errors", stats.Errors,
		"duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnEmitStart(_ context.Context, format string) {
	h.logger.Debug("emit start", "format", format)
}

func (h *logHooks) OnEmitComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("emit failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("emit done", "format", format, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnCacheError(_ context.Context, keyType, op string, err error) {
	h.logger.Warn("cache error", "type", keyType, "op", op, "error", err)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
}
