package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the outcome engine.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	readDuration       *prometheus.HistogramVec
	readFailures       *prometheus.CounterVec
	dashboardDuration  *prometheus.HistogramVec
	unitCountFallbacks prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	readDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_read_duration_seconds",
		Help:    "Duration of collaborator reads issued while computing a dashboard",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})

	readFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_read_failures_total",
		Help: "Collaborator reads that failed, by collection",
	}, []string{"collection"})

	dashboardDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_compute_duration_seconds",
		Help:    "End-to-end dashboard computation time",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope", "outcome"})

	unitCountFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_unit_count_fallbacks_total",
		Help: "Groups classified with the default unit count because their subject had none",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		readDuration, readFailures, dashboardDuration, unitCountFallbacks, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		readDuration:       readDuration,
		readFailures:       readFailures,
		dashboardDuration:  dashboardDuration,
		unitCountFallbacks: unitCountFallbacks,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup outcome.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveRead records the latency of one collaborator read.
func (m *MetricsService) ObserveRead(collection string, duration time.Duration) {
	if m == nil {
		return
	}
	m.readDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

// RecordReadFailure counts a failed collaborator read.
func (m *MetricsService) RecordReadFailure(collection string) {
	if m == nil {
		return
	}
	m.readFailures.WithLabelValues(collection).Inc()
}

// ObserveDashboard records one dashboard computation.
func (m *MetricsService) ObserveDashboard(scope string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.dashboardDuration.WithLabelValues(scope, outcome).Observe(duration.Seconds())
}

// RecordUnitCountFallback counts a group graded with the default unit count.
func (m *MetricsService) RecordUnitCountFallback() {
	if m == nil {
		return
	}
	m.unitCountFallbacks.Inc()
}
