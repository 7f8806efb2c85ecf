package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManager(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(WithPrometheusRegistry(registry))
	if m == nil {
		t.Fatal("expected a manager")
	}
	if m.namespace != "fiveordie" {
		t.Errorf("expected default namespace, got %q", m.namespace)
	}
}

func TestNewManager_Options(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(
		WithPrometheusRegistry(registry),
		WithNamespace("custom"),
		WithSubsystem("matches"),
		WithHistogramBuckets([]float64{1, 5, 10}),
		WithMetricsEnabled(false),
	)
	if m.namespace != "custom" || m.subsystem != "matches" {
		t.Errorf("options not applied: %q/%q", m.namespace, m.subsystem)
	}
	if m.enabled {
		t.Error("expected metrics disabled")
	}
	if len(m.histogramBuckets) != 3 {
		t.Errorf("expected 3 buckets, got %d", len(m.histogramBuckets))
	}
}

func TestRecordHelpers(t *testing.T) {
	// The helpers hit the global manager; they must not panic and the
	// registry must gather cleanly afterwards.
	RecordEventCreated()
	RecordPlayerJoined()
	RecordPaymentToggled()
	RecordTeamShuffle()
	SetTrackedEvents(4)
	RecordStorageOp("file", "create", "ok")
	RecordStorageOpDuration("file", "create", 1.2)
	RecordHTTPRequest("events", "POST", "201")
	RecordHTTPRequestDuration("events", "POST", "201", 3.4)

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected gathered metric families")
	}
}
