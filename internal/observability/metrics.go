package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dwd_api"

// Metrics holds the Prometheus counters, histograms, and gauges for the decode service.
type Metrics struct {
	Requests *prometheus.CounterVec // labels: resource={stations,forecast,report}, outcome={success,not_found,error}

	// Decode metrics.
	DecodeDuration *prometheus.HistogramVec // labels: resource
	DecodeErrors   *prometheus.CounterVec   // labels: resource, kind
	DroppedRecords *prometheus.CounterVec   // labels: resource
	DecodeInflight prometheus.Gauge

	// Upstream and cache metrics.
	Cache            *prometheus.CounterVec   // labels: resource, result={hit,miss}
	UpstreamDuration *prometheus.HistogramVec // labels: resource

	// Publisher metrics.
	Published     prometheus.Counter
	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.DecodeDuration,
		m.DecodeErrors,
		m.DroppedRecords,
		m.DecodeInflight,
		m.Cache,
		m.UpstreamDuration,
		m.Published,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Resource requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		DecodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding one upstream document.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"resource"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Structural decode failures by resource and error kind.",
		}, []string{"resource", "kind"}),
		DroppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_records_total",
			Help:      "Rows or forecast elements skipped during decoding.",
		}, []string{"resource"}),
		DecodeInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "decode_inflight",
			Help:      "Decodes currently holding a worker slot.",
		}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Decoded-result cache lookups by resource and result.",
		}, []string{"resource", "result"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "DWD open-data request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"resource"}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_total",
			Help:      "Decoded snapshots written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed writes of decoded snapshots to the Kafka topic.",
		}),
	}
}
