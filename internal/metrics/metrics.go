// Package metrics exposes lab and HTTP counters in Prometheus format.
package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buildlab/internal/domain"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Lab Metrics
	IntentsTotal        *prometheus.CounterVec
	TransitionsRefused  *prometheus.CounterVec
	SessionsActive      prometheus.Gauge
	SessionsReapedTotal prometheus.Counter
	ScenarioStepsFailed prometheus.Counter
	AggregateLookups    *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initHTTPMetrics()
	r.initLabMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildlab_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "buildlab_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

func (r *Registry) initLabMetrics() {
	r.IntentsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildlab_intents_total",
			Help: "Intents applied to labs by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	r.TransitionsRefused = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildlab_transitions_refused_total",
			Help: "Provisioning transitions refused by a gate or validation, by target phase",
		},
		[]string{"phase"},
	)

	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "buildlab_sessions_active",
			Help: "Current number of lab sessions",
		},
	)

	r.SessionsReapedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "buildlab_sessions_reaped_total",
			Help: "Sessions removed after idling past their TTL",
		},
	)

	r.ScenarioStepsFailed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "buildlab_scenario_steps_failed_total",
			Help: "Scenario entries that failed while seeding a session",
		},
	)

	r.AggregateLookups = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildlab_aggregate_lookups_total",
			Help: "Fleet aggregate reads by whether the memoized result was reused",
		},
		[]string{"result"},
	)
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IntentApplied counts a successful intent
func (r *Registry) IntentApplied(intent string) {
	r.IntentsTotal.WithLabelValues(intent, "ok").Inc()
}

// IntentRejected counts an intent that failed, labelled by error class
func (r *Registry) IntentRejected(intent string, err error) {
	r.IntentsTotal.WithLabelValues(intent, Outcome(err)).Inc()
}

// TransitionRefused counts a refused provisioning transition
func (r *Registry) TransitionRefused(phase domain.Phase) {
	r.TransitionsRefused.WithLabelValues(string(phase)).Inc()
}

// SessionOpened tracks a new session
func (r *Registry) SessionOpened() {
	r.SessionsActive.Inc()
}

// SessionClosed tracks a deleted or reaped session
func (r *Registry) SessionClosed(reaped bool) {
	r.SessionsActive.Dec()
	if reaped {
		r.SessionsReapedTotal.Inc()
	}
}

// ScenarioStepFailed counts a scenario entry that failed during seeding
func (r *Registry) ScenarioStepFailed() {
	r.ScenarioStepsFailed.Inc()
}

// AggregateComputed counts an aggregate read as a cache hit or miss
func (r *Registry) AggregateComputed(cached bool) {
	result := "miss"
	if cached {
		result = "hit"
	}
	r.AggregateLookups.WithLabelValues(result).Inc()
}

// Outcome classifies err into a low-cardinality label
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnknownNode), errors.Is(err, domain.ErrUnknownCable):
		return "unknown"
	case errors.Is(err, domain.ErrPrerequisiteNotMet):
		return "refused"
	case errors.Is(err, domain.ErrInvalidNetworkConfig):
		return "invalid"
	case errors.Is(err, domain.ErrSelfLoop), errors.Is(err, domain.ErrDuplicateID), errors.Is(err, domain.ErrWrongKind):
		return "conflict"
	}
	return "error"
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
