package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mutdom/pkg/cache"
	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/killmap"
	"github.com/matzehuels/mutdom/pkg/observability"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// Cache key types reported to observability hooks.
const (
	keyTypeAnalysis = "analysis"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and web service use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, csv io.Reader, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	km, err := Parse(ctx, csv, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.MutantCount = km.Len()
	result.KillMapHash = KillMapHash(km)

	opts.Logger.Info("parsed kill matrix",
		"source", opts.Source,
		"mutants", km.Len(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	a, layout, hit, err := r.AnalyzeWithCacheInfo(ctx, km, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = a
	result.Layout = layout
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.GroupCount = len(layout.Nodes)
	result.Stats.EdgeCount = len(layout.Edges)
	result.CacheInfo.AnalyzeHit = hit

	opts.Logger.Info("computed subsumption graph",
		"summary", layoutSummary(layout),
		"dominators", len(layout.Dominators),
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo analyzes km with caching and returns cache hit info.
// The in-memory analysis is nil on a cache hit.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, km killmap.KillMap, opts Options) (*subsumption.Analysis, graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, graph.Layout{}, false, err
	}
	// Limits apply to cached results too.
	if err := checkCeilings(km, opts); err != nil {
		return nil, graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.AnalysisKey(KillMapHash(km), opts.AnalysisKeyOpts())
	hooks := observability.Pipeline()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeAnalysis)
				return nil, cached, true, nil
			}
			// unreadable entry: fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key_type", keyTypeAnalysis, "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeAnalysis)

	hooks.OnAnalyzeStart(ctx, km.Len())
	start := time.Now()
	a, layout, err := Analyze(km, opts)
	if err != nil {
		hooks.OnAnalyzeComplete(ctx, 0, 0, time.Since(start), err)
		return nil, graph.Layout{}, false, err
	}
	hooks.OnAnalyzeComplete(ctx, a.Stats.Groups, a.Stats.Edges, time.Since(start), nil)

	if data, err := graph.MarshalLayout(layout); err == nil {
		r.store(ctx, opts.Logger, keyTypeAnalysis, cacheKey, data, cache.TTLAnalysis)
	}
	return a, layout, false, nil
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and
// returns only the layout.
func (r *Runner) Analyze(ctx context.Context, km killmap.KillMap, opts Options) (graph.Layout, error) {
	_, layout, _, err := r.AnalyzeWithCacheInfo(ctx, km, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Display options in opts are applied to layout first, so a saved
// layout can be re-rendered as a different visualization type.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	prepared, err := BuildLayout(layout, opts)
	if err != nil {
		return nil, false, err
	}
	layoutData, err := graph.MarshalLayout(prepared)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, prepared, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, opts.Logger, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes to the cache. Failures are logged, never returned: a result
// that cannot be cached is still a result.
func (r *Runner) store(ctx context.Context, logger *log.Logger, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
