// Package telemetry wires prometheus metrics and OpenTelemetry tracing,
// gated by PROMETHEUS_ENABLED/TRACING_ENABLED the way spec.md section 6
// describes, grounded on the health/metrics server pattern of
// antflydb-antfly-go/libaf/healthserver.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements the orchestrator.Metrics contract with the
// collectors spec.md 4.10 step 7 names (requests, records, duration), each
// labelled by generation path.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	recordsTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors against the default registry. Safe
// to call once per process; registering twice panics, matching
// promauto's documented behaviour.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndata",
			Name:      "requests_total",
			Help:      "Total generation requests by path and outcome.",
		}, []string{"path", "success"}),
		recordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "syndata",
			Name:      "records_generated_total",
			Help:      "Total records generated by path.",
		}, []string{"path"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "syndata",
			Name:      "request_duration_seconds",
			Help:      "Request latency by generation path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// ObserveRequest implements orchestrator.Metrics.
func (m *Metrics) ObserveRequest(path string, success bool) {
	m.requestsTotal.WithLabelValues(path, boolLabel(success)).Inc()
}

// ObserveRecords implements orchestrator.Metrics.
func (m *Metrics) ObserveRecords(path string, count int) {
	m.recordsTotal.WithLabelValues(path).Add(float64(count))
}

// ObserveDuration implements orchestrator.Metrics.
func (m *Metrics) ObserveDuration(path string, d time.Duration) {
	m.requestDuration.WithLabelValues(path).Observe(d.Seconds())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
