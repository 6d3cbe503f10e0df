package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"buildlab/internal/domain"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.HTTPRequestsTotal == nil || r.IntentsTotal == nil || r.SessionsActive == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestIntentCounters(t *testing.T) {
	r := NewRegistry()

	r.IntentApplied("connect")
	r.IntentApplied("connect")
	r.IntentRejected("connect", &domain.SelfLoopError{ID: "PC-1"})
	r.IntentRejected("apply os", &domain.PrerequisiteNotMetError{NodeID: "MON-1", Phase: domain.PhaseOSSet})
	r.TransitionRefused(domain.PhaseOSSet)

	tests := []struct {
		intent, outcome string
		want            float64
	}{
		{"connect", "ok", 2},
		{"connect", "conflict", 1},
		{"apply os", "refused", 1},
	}
	for _, tt := range tests {
		c, err := r.IntentsTotal.GetMetricWithLabelValues(tt.intent, tt.outcome)
		if err != nil {
			t.Fatalf("Failed to get metric: %v", err)
		}
		if got := counterValue(t, c); got != tt.want {
			t.Errorf("intents{%s,%s} = %v, want %v", tt.intent, tt.outcome, got, tt.want)
		}
	}

	refused, _ := r.TransitionsRefused.GetMetricWithLabelValues(string(domain.PhaseOSSet))
	if got := counterValue(t, refused); got != 1 {
		t.Errorf("refused{os_set} = %v, want 1", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&domain.UnknownNodeError{ID: "x"}, "unknown"},
		{fmt.Errorf("wrapped: %w", &domain.UnknownCableError{ID: "x"}), "unknown"},
		{&domain.PrerequisiteNotMetError{}, "refused"},
		{&domain.InvalidNetworkConfigError{}, "invalid"},
		{&domain.DuplicateIDError{}, "conflict"},
		{&domain.WrongKindError{}, "conflict"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/api/catalog", "200", 5*time.Millisecond)
	r.SessionsActive.Set(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`buildlab_http_requests_total{method="GET",route="/api/catalog",status="200"} 1`,
		"buildlab_sessions_active 2",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}

func TestSessionGauges(t *testing.T) {
	r := NewRegistry()

	r.SessionOpened()
	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed(false)
	r.SessionClosed(true)
	r.ScenarioStepFailed()

	var gauge dto.Metric
	if err := r.SessionsActive.Write(&gauge); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := gauge.Gauge.GetValue(); got != 1 {
		t.Errorf("sessions_active = %v, want 1", got)
	}
	if got := counterValue(t, r.SessionsReapedTotal); got != 1 {
		t.Errorf("sessions_reaped_total = %v, want 1", got)
	}
	if got := counterValue(t, r.ScenarioStepsFailed); got != 1 {
		t.Errorf("scenario_steps_failed_total = %v, want 1", got)
	}
}

func TestAggregateLookups(t *testing.T) {
	r := NewRegistry()

	r.AggregateComputed(false)
	r.AggregateComputed(true)
	r.AggregateComputed(true)

	if got := counterValue(t, r.AggregateLookups.WithLabelValues("hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counterValue(t, r.AggregateLookups.WithLabelValues("miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}
