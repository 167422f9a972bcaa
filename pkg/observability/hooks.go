// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the defaults are no-ops,
// so instrumentation costs nothing unless a binary installs a backend. The
// web service installs [PrometheusHooks] at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetHTTPHooks(hooks)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnAnalyzeStart(ctx, km.Len())
//	// ... analyze ...
//	observability.Pipeline().OnAnalyzeComplete(ctx, groups, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the analysis pipeline.
type PipelineHooks interface {
	// Parse events. source names the input (file name or "upload").
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, mutants int, duration time.Duration, err error)

	// Analyze events
	OnAnalyzeStart(ctx context.Context, mutants int)
	OnAnalyzeComplete(ctx context.Context, groups, edges int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the web service. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnAnalyzeStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
