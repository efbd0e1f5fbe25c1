package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling core.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	assignmentsTotal *prometheus.CounterVec
	locksTotal       prometheus.Counter
	rolledJobsTotal  prometheus.Counter
	suggestionsTotal *prometheus.CounterVec
}

// Assignment outcome labels.
const (
	AssignOutcomeOK         = "ok"
	AssignOutcomeOverbooked = "overbooked"
	AssignOutcomeNoCapacity = "capacity_unknown"
)

// NewMetricsService registers core Prometheus collectors.
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	assignmentsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_assignments_total",
		Help: "Slot assignments created or moved, by capacity outcome",
	}, []string{"outcome"})

	locksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_locks_total",
		Help: "Slot assignments locked",
	})

	rolledJobsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_rolled_jobs_total",
		Help: "Slot assignments moved to today by roll-forward",
	})

	suggestionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_suggestions_total",
		Help: "Slot suggestion requests, by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		assignmentsTotal, locksTotal, rolledJobsTotal, suggestionsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		assignmentsTotal: assignmentsTotal,
		locksTotal:       locksTotal,
		rolledJobsTotal:  rolledJobsTotal,
		suggestionsTotal: suggestionsTotal,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordAssignment counts one assignment write by its capacity outcome.
func (m *MetricsService) RecordAssignment(outcome string) {
	if m == nil {
		return
	}
	m.assignmentsTotal.WithLabelValues(outcome).Inc()
}

// RecordLock counts one successful lock transition.
func (m *MetricsService) RecordLock() {
	if m == nil {
		return
	}
	m.locksTotal.Inc()
}

// RecordRolledJobs counts assignments moved by one roll-forward pass.
func (m *MetricsService) RecordRolledJobs(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rolledJobsTotal.Add(float64(n))
}

// RecordSuggestion counts one suggestion request.
func (m *MetricsService) RecordSuggestion(found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "none"
	}
	m.suggestionsTotal.WithLabelValues(result).Inc()
}
