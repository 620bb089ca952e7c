package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics wraps the Prometheus collectors exported by the service.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	events        *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	ratings       prometheus.Histogram
	simulatedFail prometheus.Counter
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helpdesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests broken down by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "helpdesk",
			Subsystem: "http",
			Name:      "latency_seconds",
			Help:      "Latency distribution for HTTP requests.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helpdesk",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Error responses broken down by route and error code.",
		}, []string{"route", "method", "code"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helpdesk",
			Subsystem: "domain",
			Name:      "events_total",
			Help:      "Domain events published, by type.",
		}, []string{"type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helpdesk",
			Subsystem: "requests",
			Name:      "status_transitions_total",
			Help:      "Request status transitions, by target status.",
		}, []string{"status"}),
		ratings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "helpdesk",
			Subsystem: "requests",
			Name:      "satisfaction_rating",
			Help:      "Satisfaction ratings submitted on resolved requests.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		simulatedFail: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "helpdesk",
			Subsystem: "facade",
			Name:      "simulated_failures_total",
			Help:      "Failures injected by the access facade.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.errors, m.events, m.transitions, m.ratings, m.simulatedFail)
	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordEvent counts a published domain event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}

// RecordTransition counts a status change into status.
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

// RecordRating observes a satisfaction rating.
func (m *Metrics) RecordRating(rating int) {
	if m == nil {
		return
	}
	m.ratings.Observe(float64(rating))
}

// RecordSimulatedFailure counts an injected facade failure.
func (m *Metrics) RecordSimulatedFailure() {
	if m == nil {
		return
	}
	m.simulatedFail.Inc()
}
