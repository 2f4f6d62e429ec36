// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "call_insights_dashboard"

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	// Fetch metrics
	FetchTotal    *prometheus.CounterVec
	FetchLatency  *prometheus.HistogramVec
	FetchInFlight *prometheus.GaugeVec
	StaleDropped  *prometheus.CounterVec

	// Refresh signal metrics
	RefreshFires       prometheus.Counter
	RefreshSubscribers prometheus.Gauge
	TriggerFires       *prometheus.CounterVec

	// Kafka metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
	KafkaConsumed       *prometheus.CounterVec

	// Surface metrics
	HTTPRequests *prometheus.CounterVec
	GRPCRequests *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance registered with the default registry.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total number of backend fetch cycles by outcome",
		}, []string{"endpoint", "outcome"}),
		FetchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_latency_seconds",
			Help:      "Backend fetch latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"endpoint"}),
		FetchInFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_in_flight",
			Help:      "Number of outstanding backend fetches",
		}, []string{"endpoint"}),
		StaleDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_stale_dropped_total",
			Help:      "Total number of responses dropped because a newer request was issued",
		}, []string{"endpoint"}),

		RefreshFires: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_signal_fires_total",
			Help:      "Total number of refresh signal fires",
		}),
		RefreshSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_signal_subscribers",
			Help:      "Number of handlers currently subscribed to the refresh signal",
		}),
		TriggerFires: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_fires_total",
			Help:      "Total number of refresh triggers by source",
		}, []string{"source"}),

		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
		KafkaConsumed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_consumed_total",
			Help:      "Total number of Kafka messages consumed by result",
		}, []string{"topic", "result"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of dashboard HTTP requests",
		}, []string{"method", "route", "code"}),
		GRPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of gRPC calls",
		}, []string{"method", "code"}),
	}
}

// RecordFetch records a completed fetch cycle.
func (m *Metrics) RecordFetch(endpoint, outcome string, latencySeconds float64) {
	m.FetchTotal.WithLabelValues(endpoint, outcome).Inc()
	m.FetchLatency.WithLabelValues(endpoint).Observe(latencySeconds)
}

// RecordFetchStart records a fetch being issued.
func (m *Metrics) RecordFetchStart(endpoint string) {
	m.FetchInFlight.WithLabelValues(endpoint).Inc()
}

// RecordFetchEnd records a fetch returning, whatever its result.
func (m *Metrics) RecordFetchEnd(endpoint string) {
	m.FetchInFlight.WithLabelValues(endpoint).Dec()
}

// RecordStaleDropped records a superseded response being discarded.
func (m *Metrics) RecordStaleDropped(endpoint string) {
	m.StaleDropped.WithLabelValues(endpoint).Inc()
}

// RecordRefreshFire records one refresh signal fire.
func (m *Metrics) RecordRefreshFire() {
	m.RefreshFires.Inc()
}

// SetSubscribers records the current subscriber count.
func (m *Metrics) SetSubscribers(n int) {
	m.RefreshSubscribers.Set(float64(n))
}

// RecordTrigger records a refresh trigger from the given source.
func (m *Metrics) RecordTrigger(source string) {
	m.TriggerFires.WithLabelValues(source).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic).Inc()
	}
}

// RecordKafkaConsumed records a consumed Kafka message.
func (m *Metrics) RecordKafkaConsumed(topic, result string) {
	m.KafkaConsumed.WithLabelValues(topic, result).Inc()
}

// RecordHTTPRequest records a served dashboard HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, code string) {
	m.HTTPRequests.WithLabelValues(method, route, code).Inc()
}

// RecordGRPCRequest records a served gRPC call.
func (m *Metrics) RecordGRPCRequest(method, code string) {
	m.GRPCRequests.WithLabelValues(method, code).Inc()
}
