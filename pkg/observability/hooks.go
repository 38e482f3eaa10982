// Package observability lets a binary watch what archscape does without the
// libraries depending on a metrics or tracing backend.
//
// Four hook sets cover the interesting events: workspace builds and view
// renders ([PipelineHooks]), artifact cache lookups ([CacheHooks]),
// publisher runs ([PublishHooks]) and outgoing HTTP calls ([HTTPHooks]).
// Libraries fetch the current set with [Pipeline], [Cache], [Publish] or
// [HTTP] at the point of use; binaries replace them once at startup:
//
//	observability.Install(observability.NewLogHooks(logger))
//
// Until then every hook is a no-op.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes workspace builds and view renders. Render events
// fire once per view and format, including cache hits.
type PipelineHooks interface {
	OnBuildStart(ctx context.Context, workspace string)
	OnBuildComplete(ctx context.Context, workspace string, elements, views int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, view, format string)
	OnRenderComplete(ctx context.Context, view, format string, size int, duration time.Duration, err error)
}

// CacheHooks observes the artifact cache. keyType is the key kind, such as
// "artifact" or "publish".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// PublishHooks observes publisher runs.
type PublishHooks interface {
	OnPublishStart(ctx context.Context, publisher string)
	OnPublishComplete(ctx context.Context, publisher string, duration time.Duration, err error)
}

// HTTPHooks observes outgoing requests. OnError is for transport failures;
// error statuses arrive through OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop implements every hook interface and does nothing. Embed it to
// implement only some events.
type Noop struct{}

func (Noop) OnBuildStart(context.Context, string)                                        {}
func (Noop) OnBuildComplete(context.Context, string, int, int, time.Duration, error)     {}
func (Noop) OnRenderStart(context.Context, string, string)                               {}
func (Noop) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                          {}
func (Noop) OnCacheMiss(context.Context, string)                                         {}
func (Noop) OnCacheSet(context.Context, string, int)                                     {}
func (Noop) OnPublishStart(context.Context, string)                                      {}
func (Noop) OnPublishComplete(context.Context, string, time.Duration, error)             {}
func (Noop) OnRequest(context.Context, string, string, string)                           {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration)      {}
func (Noop) OnError(context.Context, string, string, string, error)                      {}

// slot holds one registered hook set.
type slot[T any] struct{ p atomic.Pointer[T] }

func (s *slot[T]) load(def T) T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return def
}

func (s *slot[T]) store(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	pipelineSlot slot[PipelineHooks]
	cacheSlot    slot[CacheHooks]
	publishSlot  slot[PublishHooks]
	httpSlot     slot[HTTPHooks]
)

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetPublishHooks registers h. A nil h is ignored.
func SetPublishHooks(h PublishHooks) {
	if h != nil {
		publishSlot.store(h)
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

// Install registers h for every hook interface it implements.
func Install(h any) {
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
	}
	if p, ok := h.(PublishHooks); ok {
		SetPublishHooks(p)
	}
	if x, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(x)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.load(Noop{}) }
func Cache() CacheHooks       { return cacheSlot.load(Noop{}) }
func Publish() PublishHooks   { return publishSlot.load(Noop{}) }
func HTTP() HTTPHooks         { return httpSlot.load(Noop{}) }

// Reset restores the no-op hooks.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	publishSlot.reset()
	httpSlot.reset()
}
