// Package metrics exposes engine, stream and HTTP measurements to Prometheus.
//
// A Metrics value satisfies registry.Observer and fanout.Observer, and its
// Handler serves the /metrics endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridstore"

// Metrics owns a private registry and every gridstore collector.
type Metrics struct {
	registry *prometheus.Registry

	updates          *prometheus.CounterVec
	updateDuration   *prometheus.HistogramVec
	registered       prometheus.Counter
	registerDuration prometheus.Histogram
	records          prometheus.Gauge

	delivered   *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	subscribers prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "updates_total",
				Help:      "Count of component update requests by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		updateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "update_duration_seconds",
				Help:      "Time from receiving an update to its outcome, by kind.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"kind"},
		),
		registered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "registered_records_total",
				Help:      "Count of records stored by tree registrations.",
			},
		),
		registerDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "register_duration_seconds",
				Help:      "Time taken to register one tree.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "records",
				Help:      "Number of records in the store.",
			},
		),
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "snapshots_delivered_total",
				Help:      "Count of snapshots queued to subscribers, by kind.",
			},
			[]string{"kind"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "snapshots_dropped_total",
				Help:      "Count of snapshots discarded because a subscriber lagged, by kind.",
			},
			[]string{"kind"},
		),
		subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "stream",
				Name:      "subscribers",
				Help:      "Number of open stream subscriptions.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Count of HTTP requests by route pattern, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.updates, m.updateDuration, m.registered, m.registerDuration, m.records,
		m.delivered, m.dropped, m.subscribers,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// UpdateObserved implements registry.Observer.
func (m *Metrics) UpdateObserved(kind, outcome string, elapsed time.Duration) {
	m.updates.WithLabelValues(kind, outcome).Inc()
	m.updateDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RegisterObserved implements registry.Observer.
func (m *Metrics) RegisterObserved(records int, elapsed time.Duration) {
	m.registered.Add(float64(records))
	m.registerDuration.Observe(elapsed.Seconds())
}

// RecordCount implements registry.Observer.
func (m *Metrics) RecordCount(n int) {
	m.records.Set(float64(n))
}

// SnapshotPublished implements fanout.Observer.
func (m *Metrics) SnapshotPublished(kind string, delivered int) {
	if delivered > 0 {
		m.delivered.WithLabelValues(kind).Add(float64(delivered))
	}
}

// SnapshotDropped implements fanout.Observer.
func (m *Metrics) SnapshotDropped(kind string) {
	m.dropped.WithLabelValues(kind).Inc()
}

// SubscribersChanged implements fanout.Observer.
func (m *Metrics) SubscribersChanged(delta int) {
	m.subscribers.Add(float64(delta))
}

// ObserveHTTP records one served request. route is the router pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
