package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level; failures
// are logged as warnings. The CLI installs it, so --verbose shows the events.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, prefixed with the event group.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnBuildStart(_ context.Context, workspace string) {
	h.logger.Debug("build started", "workspace", workspace)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, workspace string, elements, views int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("build failed", "workspace", workspace, "err", err)
		return
	}
	h.logger.Debug("build done", "workspace", workspace, "elements", elements, "views", views, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, view, format string) {
	h.logger.Debug("render started", "view", view, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, view, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "view", view, "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "view", view, "format", format, "bytes", size, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnPublishStart(_ context.Context, publisher string) {
	h.logger.Debug("publish started", "publisher", publisher)
}

func (h *LogHooks) OnPublishComplete(_ context.Context, publisher string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("publish failed", "publisher", publisher, "err", err)
		return
	}
	h.logger.Debug("publish done", "publisher", publisher, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ PublishHooks  = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
