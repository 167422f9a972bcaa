package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mutdom"

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors.
type PrometheusHooks struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	mutants       prometheus.Histogram
	groups        prometheus.Histogram
	edges         prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// Registering twice with the same registerer panics, so call it once per
// registry.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 8)

	return &PrometheusHooks{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Total pipeline stage failures",
		}, []string{"stage"}),
		mutants: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "mutants",
			Help:      "Number of mutants per parsed kill matrix",
			Buckets:   sizeBuckets,
		}),
		groups: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "groups",
			Help:      "Number of distinct kill sets per analysis",
			Buckets:   sizeBuckets,
		}),
		edges: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "edges",
			Help:      "Number of subsumption edges per analysis",
			Buckets:   sizeBuckets,
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers h as the pipeline, cache and HTTP hooks.
func (h *PrometheusHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *PrometheusHooks) OnParseStart(context.Context, string) {}

func (h *PrometheusHooks) OnParseComplete(_ context.Context, _ string, mutants int, d time.Duration, err error) {
	h.stage("parse", d, err)
	if err == nil {
		h.mutants.Observe(float64(mutants))
	}
}

func (h *PrometheusHooks) OnAnalyzeStart(context.Context, int) {}

func (h *PrometheusHooks) OnAnalyzeComplete(_ context.Context, groups, edges int, d time.Duration, err error) {
	h.stage("analyze", d, err)
	if err == nil {
		h.groups.Observe(float64(groups))
		h.edges.Observe(float64(edges))
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.stage("render", d, err)
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) stage(name string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues(name).Inc()
	}
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
