package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the CLI.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	OpenOrders      prometheus.Gauge
	PollErrors      *prometheus.CounterVec
}

// NewMetrics creates metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bolplaza_requests_total",
				Help: "Total number of Plaza API requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bolplaza_request_duration_seconds",
				Help:    "Plaza API request duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OpenOrders: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bolplaza_open_orders",
				Help: "Number of open orders seen by the last poll",
			},
		),
		PollErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bolplaza_poll_errors_total",
				Help: "Total failed polls by error type",
			},
			[]string{"error_type"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, status string, seconds float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordPoll records the outcome of an order poll.
func (m *Metrics) RecordPoll(openOrders int) {
	m.OpenOrders.Set(float64(openOrders))
}

// RecordError records a failed poll.
func (m *Metrics) RecordError(errorType string) {
	m.PollErrors.WithLabelValues(errorType).Inc()
}
