package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/username/schedule-engine/internal/schedule"
	apperrors "github.com/username/schedule-engine/pkg/errors"
)

const metricsNamespace = "schedule_engine"

// Metrics encapsulates Prometheus instrumentation of the HTTP API.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	computations    *prometheus.CounterVec
	failures        *prometheus.CounterVec
	scheduleDays    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "computations_total",
			Help:      "Schedules computed, by day-count policy and operation",
		}, []string{"policy", "operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failures_total",
			Help:      "Failed schedule requests, by error code",
		}, []string{"code"}),
		scheduleDays: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "schedule_total_days",
			Help:      "Total duration of computed schedules in days",
			Buckets:   []float64{5, 10, 22, 30, 66, 90, 180, 365, 730},
		}, []string{"policy"}),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.computations,
		m.failures,
		m.scheduleDays,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// Handler exposes the Prometheus handler.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request duration and count.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// ObserveSchedule records a successful computation.
func (m *Metrics) ObserveSchedule(operation string, result *schedule.Result) {
	if m == nil || result == nil {
		return
	}
	policy := result.Policy.String()
	m.computations.WithLabelValues(policy, operation).Inc()
	m.scheduleDays.WithLabelValues(policy).Observe(float64(result.TotalDays))
}

// ObserveFailure records a failed request by error code.
func (m *Metrics) ObserveFailure(err error) {
	if m == nil || err == nil {
		return
	}
	m.failures.WithLabelValues(apperrors.FromError(err).Code).Inc()
}
