// Package metrics provides Prometheus metrics for the exorank service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Prediction pipeline
	predictions        *prometheus.CounterVec
	predictionLatency  prometheus.Histogram
	heuristicOverrides prometheus.Counter

	// Record store
	bodiesAdded        prometheus.Counter
	duplicateNames     prometheus.Counter
	bodiesTracked      prometheus.Gauge
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	unauthorized        prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "exorank",
		subsystem:        "scoring",
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
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of predictions served, labeled by classification outcome",
	}, []string{"outcome"})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "Histogram of end-to-end prediction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.heuristicOverrides = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "heuristic_overrides_total",
		Help:      "Total number of predictions raised to the Earth-similarity floor",
	})

	m.bodiesAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "bodies_added_total",
		Help:      "Total number of bodies inserted into the record store",
	})

	m.duplicateNames = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "duplicate_names_total",
		Help:      "Total number of rejected inserts for an existing name",
	})

	m.bodiesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "bodies_tracked",
		Help:      "Current number of bodies in the record store",
	})

	m.storeUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "update_latency_milliseconds",
		Help:      "Histogram of score write plus rank recompute latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "query_latency_milliseconds",
		Help:      "Histogram of leaderboard query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration by endpoint and method",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.unauthorized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "unauthorized_total",
		Help:      "Total requests rejected by the secure-path token gate",
	})
}

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers on the global manager.

// RecordPrediction counts a served prediction and its latency. Outcome is
// "habitable" or "not_habitable".
func RecordPrediction(outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictions.WithLabelValues(outcome).Inc()
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordHeuristicOverride counts a score raised to the Earth-similarity floor.
func RecordHeuristicOverride() {
	if !globalManager.enabled {
		return
	}
	globalManager.heuristicOverrides.Inc()
}

// RecordBodyAdded counts a successful insert.
func RecordBodyAdded() {
	if !globalManager.enabled {
		return
	}
	globalManager.bodiesAdded.Inc()
}

// RecordDuplicateName counts a rejected insert for an existing name.
func RecordDuplicateName() {
	if !globalManager.enabled {
		return
	}
	globalManager.duplicateNames.Inc()
}

// UpdateBodiesTracked sets the current store population.
func UpdateBodiesTracked(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.bodiesTracked.Set(float64(n))
}

// RecordStoreUpdateLatency observes a score write plus rank recompute.
func RecordStoreUpdateLatency(ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeUpdateLatency.Observe(ms)
}

// RecordStoreQueryLatency observes a leaderboard query.
func RecordStoreQueryLatency(ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeQueryLatency.Observe(ms)
}

// RecordHTTPRequest counts a finished HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes a finished HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

// RecordUnauthorized counts a secure-path rejection.
func RecordUnauthorized() {
	if !globalManager.enabled {
		return
	}
	globalManager.unauthorized.Inc()
}
