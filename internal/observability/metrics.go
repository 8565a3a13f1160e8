package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "profiler"

// Metrics holds the Prometheus collectors for the profiler. A nil *Metrics
// records nothing.
type Metrics struct {
	namespace        string
	histogramBuckets []float64
	goCollectors     bool
	registry         *prometheus.Registry

	assessments         *prometheus.CounterVec
	rejected            *prometheus.CounterVec
	persistenceFailures prometheus.Counter
	emailDeliveries     *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) MetricsOption {
	return func(m *Metrics) { m.namespace = ns }
}

// WithHistogramBuckets sets the HTTP duration buckets.
func WithHistogramBuckets(buckets []float64) MetricsOption {
	return func(m *Metrics) { m.histogramBuckets = buckets }
}

// WithGoCollectors also exports Go runtime and process metrics.
func WithGoCollectors() MetricsOption {
	return func(m *Metrics) { m.goCollectors = true }
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	m := &Metrics{
		namespace:        defaultNamespace,
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.assessments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "assessments_evaluated_total",
		Help:      "Assessments scored, by dominant strategy code",
	}, []string{"dominant"})
	m.rejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "submissions_rejected_total",
		Help:      "Submissions rejected before scoring, by reason",
	}, []string{"reason"})
	m.persistenceFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "persistence_failures_total",
		Help:      "Assessment results that could not be saved",
	})
	m.emailDeliveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "email_deliveries_total",
		Help:      "Results email attempts, by status",
	}, []string{"status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route", "status"})

	if m.goCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordAssessment counts a scored assessment.
func (m *Metrics) RecordAssessment(dominant string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(dominant).Inc()
}

// RecordRejected counts a submission rejected at the boundary.
func (m *Metrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// RecordPersistenceFailure counts a failed save.
func (m *Metrics) RecordPersistenceFailure() {
	if m == nil {
		return
	}
	m.persistenceFailures.Inc()
}

// RecordEmail counts a delivery attempt outcome.
func (m *Metrics) RecordEmail(status string) {
	if m == nil {
		return
	}
	m.emailDeliveries.WithLabelValues(status).Inc()
}

// ObserveHTTP records one request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
