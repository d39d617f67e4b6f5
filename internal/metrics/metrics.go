// Package metrics exposes Prometheus instrumentation for the HTTP API.
//
// The service keeps its own registry instead of the global default one so
// tests can build independent instances.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const namespace = "person_api"

// Recorder captures metric events for the application.
type Recorder interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
	IncValidationFailure(route string)
	IncRateLimitHit(route string)
}

// Metrics is the Prometheus backed Recorder.
type Metrics struct {
	registry *prometheus.Registry

	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	rateLimitHits      *prometheus.CounterVec
}

// New creates a registry with Go and process collectors plus the API metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Requests rejected by schema validation.",
		}, []string{"route"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.validationFailures,
		m.rateLimitHits,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncValidationFailure counts a request rejected by validation.
func (m *Metrics) IncValidationFailure(route string) {
	m.validationFailures.WithLabelValues(route).Inc()
}

// IncRateLimitHit counts a request rejected by the rate limiter.
func (m *Metrics) IncRateLimitHit(route string) {
	m.rateLimitHits.WithLabelValues(route).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
// Collection errors are logged and the remaining metrics still served.
func (m *Metrics) Handler(logger *zerolog.Logger) http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{logger: logger},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// promLogger implements promhttp.Logger on top of zerolog.
type promLogger struct {
	logger *zerolog.Logger
}

func (l promLogger) Println(v ...interface{}) {
	l.logger.Error().Str("component", "metrics").Msgf("%v", v)
}

// Noop discards every event. Used when metrics are disabled.
type Noop struct{}

// ObserveRequest is a no-op.
func (Noop) ObserveRequest(string, string, int, time.Duration) {}

// IncValidationFailure is a no-op.
func (Noop) IncValidationFailure(string) {}

// IncRateLimitHit is a no-op.
func (Noop) IncRateLimitHit(string) {}
