package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for parse results.
const (
	OutcomeOK          = "ok"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

// Input format labels.
const (
	FormatZeek    = "zeek"
	FormatCapture = "pcap"
)

// Metrics holds the Prometheus metrics for the upload service
type Metrics struct {
	registry *prometheus.Registry

	ParsesTotal   *prometheus.CounterVec
	EventsTotal   *prometheus.CounterVec
	ParseDuration *prometheus.HistogramVec
	UploadBytes   prometheus.Counter
}

// NewMetrics creates a Metrics instance backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ParsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netvisor_parses_total",
			Help: "Total number of parse requests by input format and outcome",
		}, []string{"format", "outcome"}),
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netvisor_events_total",
			Help: "Total number of events emitted by input format",
		}, []string{"format"}),
		ParseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netvisor_parse_duration_seconds",
			Help:    "Time spent parsing an upload",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"format"}),
		UploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "netvisor_upload_bytes_total",
			Help: "Total bytes received in uploads",
		}),
	}
}

// ObserveParse records one finished parse
func (m *Metrics) ObserveParse(format, outcome string, events int, seconds float64) {
	m.ParsesTotal.WithLabelValues(format, outcome).Inc()
	m.ParseDuration.WithLabelValues(format).Observe(seconds)
	if events > 0 {
		m.EventsTotal.WithLabelValues(format).Add(float64(events))
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
