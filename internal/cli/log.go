package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lottieframes/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Exported 24 frames (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports export events at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) observability.ExportHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnFileRejected(_ context.Context, name string, err error) {
	h.logger.Debug("file rejected", "name", name, "error", err)
}

func (h *logHooks) OnFileRegistered(_ context.Context, name string) {
	h.logger.Debug("file registered", "name", name)
}

func (h *logHooks) OnRenderStart(_ context.Context, name string) {
	h.logger.Debug("render started", "name", name)
}

func (h *logHooks) OnFrameCaptured(_ context.Context, name string, index, total int) {
	// Every tenth frame and the last one.
	if (index+1)%10 == 0 || index+1 == total {
		h.logger.Debug("frames captured", "name", name, "done", index+1, "total", total)
	}
}

func (h *logHooks) OnRenderComplete(_ context.Context, name string, frames int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "name", name, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "name", name, "frames", frames, "duration", d)
}

func (h *logHooks) OnExportComplete(_ context.Context, archive string, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "archive", archive, "error", err)
		return
	}
	h.logger.Debug("export complete", "archive", archive, "entries", entries, "duration", d)
}

// logCacheHooks reports cache traffic at debug level.
type logCacheHooks struct {
	logger *log.Logger
}

func newLogCacheHooks(l *log.Logger) observability.CacheHooks {
	return &logCacheHooks{logger: l}
}

func (h *logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

// logHTTPHooks reports script downloads.
type logHTTPHooks struct {
	logger *log.Logger
}

func newLogHTTPHooks(l *log.Logger) observability.HTTPHooks {
	return &logHTTPHooks{logger: l}
}

func (h *logHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *logHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http request failed", "method", method, "host", host, "path", path, "error", err)
}
