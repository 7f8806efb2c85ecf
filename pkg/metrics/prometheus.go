// Package metrics provides Prometheus metrics for the five-or-die
// event service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Domain metrics: what actually happens to events.
	eventsCreated   prometheus.Counter
	playersJoined   prometheus.Counter
	paymentsToggled prometheus.Counter
	teamShuffles    prometheus.Counter
	trackedEvents   prometheus.Gauge

	// Storage metrics, labelled by backend, operation, and outcome.
	storageOps        *prometheus.CounterVec
	storageOpDuration *prometheus.HistogramVec

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fiveordie",
		subsystem:        "events",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.eventsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "created_total",
		Help:      "Total number of events created.",
	})
	m.playersJoined = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_joined_total",
		Help:      "Total number of players who joined an event.",
	})
	m.paymentsToggled = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payments_toggled_total",
		Help:      "Total number of payment flag toggles.",
	})
	m.teamShuffles = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_shuffles_total",
		Help:      "Total number of team shuffles.",
	})
	m.trackedEvents = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_total",
		Help:      "Events currently held by the file backend.",
	})

	m.storageOps = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "ops_total",
		Help:      "Storage operations by backend, operation, and outcome.",
	}, []string{"backend", "op", "outcome"})
	m.storageOpDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "op_duration_ms",
		Help:      "Storage operation duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"backend", "op"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// GetRegistry returns the custom registry serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

func RecordEventCreated() {
	if globalManager.enabled {
		globalManager.eventsCreated.Inc()
	}
}

func RecordPlayerJoined() {
	if globalManager.enabled {
		globalManager.playersJoined.Inc()
	}
}

func RecordPaymentToggled() {
	if globalManager.enabled {
		globalManager.paymentsToggled.Inc()
	}
}

func RecordTeamShuffle() {
	if globalManager.enabled {
		globalManager.teamShuffles.Inc()
	}
}

func SetTrackedEvents(count int) {
	if globalManager.enabled {
		globalManager.trackedEvents.Set(float64(count))
	}
}

func RecordStorageOp(backend, op, outcome string) {
	if globalManager.enabled {
		globalManager.storageOps.WithLabelValues(backend, op, outcome).Inc()
	}
}

func RecordStorageOpDuration(backend, op string, durationMs float64) {
	if globalManager.enabled {
		globalManager.storageOpDuration.WithLabelValues(backend, op).Observe(durationMs)
	}
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}
