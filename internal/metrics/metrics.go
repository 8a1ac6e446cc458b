// Package metrics exposes the service's Prometheus metrics on a custom registry.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recovery"

// Metrics holds all application collectors
type Metrics struct {
	registry *prometheus.Registry

	// Fetch metrics
	fetchPages     *prometheus.CounterVec
	recordsFetched *prometheus.CounterVec
	fetchErrors    *prometheus.CounterVec

	// Normalization metrics
	recordsDropped *prometheus.CounterVec

	// Computation metrics
	computeDuration prometheus.Histogram
	runsTotal       *prometheus.CounterVec
	staleCommits    prometheus.Counter
	lastGeneration  prometheus.Gauge

	// WebSocket metrics
	wsConnections  prometheus.Gauge
	wsMessages     prometheus.Counter
	wsErrors       prometheus.Counter
	wsDisconnected prometheus.Counter

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a metrics set on its own registry. Tests use it to avoid
// sharing counters with the singleton.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		fetchPages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_pages_total",
			Help:      "Pages read from the data source by collection",
		}, []string{"collection"}),
		recordsFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_fetched_total",
			Help:      "Raw records read from the data source by collection",
		}, []string{"collection"}),
		fetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed data source reads by collection",
		}, []string{"collection"}),

		recordsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Raw records excluded during normalization by collection and reason",
		}, []string{"collection", "reason"}),

		computeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time taken to fetch, normalize, match and aggregate one report",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Report computations by outcome",
		}, []string{"outcome"}),
		staleCommits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_commits_rejected_total",
			Help:      "Reports discarded because a newer computation superseded them",
		}),
		lastGeneration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_generation",
			Help:      "Generation of the last committed report",
		}),

		wsConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_active_connections",
			Help:      "Currently connected websocket clients",
		}),
		wsMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_total",
			Help:      "Messages queued to websocket clients",
		}),
		wsErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "Websocket read, write and upgrade errors",
		}),
		wsDisconnected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_disconnections_total",
			Help:      "Websocket clients that disconnected",
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry returns the underlying prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordPage records one page read from a collection
func (m *Metrics) RecordPage(collection string, records int) {
	m.fetchPages.WithLabelValues(collection).Inc()
	m.recordsFetched.WithLabelValues(collection).Add(float64(records))
}

// RecordFetchError increments the fetch error counter
func (m *Metrics) RecordFetchError(collection string) {
	m.fetchErrors.WithLabelValues(collection).Inc()
}

// RecordDropped records records excluded during normalization
func (m *Metrics) RecordDropped(collection, reason string, count int) {
	if count <= 0 {
		return
	}
	m.recordsDropped.WithLabelValues(collection, reason).Add(float64(count))
}

// RecordRun records a finished computation
func (m *Metrics) RecordRun(outcome string, duration time.Duration) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.computeDuration.Observe(duration.Seconds())
}

// RecordStaleCommit increments the rejected stale commit counter
func (m *Metrics) RecordStaleCommit() {
	m.staleCommits.Inc()
}

// SetGeneration records the generation of the committed report
func (m *Metrics) SetGeneration(gen uint64) {
	m.lastGeneration.Set(float64(gen))
}

// RecordWebSocketConnect increments active connections
func (m *Metrics) RecordWebSocketConnect() {
	m.wsConnections.Inc()
}

// RecordWebSocketDisconnect decrements active connections
func (m *Metrics) RecordWebSocketDisconnect() {
	m.wsConnections.Dec()
	m.wsDisconnected.Inc()
}

// RecordWebSocketMessage increments message counter
func (m *Metrics) RecordWebSocketMessage() {
	m.wsMessages.Inc()
}

// RecordWebSocketError increments WebSocket error counter
func (m *Metrics) RecordWebSocketError() {
	m.wsErrors.Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(route string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
