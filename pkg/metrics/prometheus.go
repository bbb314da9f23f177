package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsTotal   *prometheus.CounterVec
	signalsTotal  *prometheus.CounterVec
	refreshTotal  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	trackedItems  *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailpulse_events_total",
				Help: "Total number of inbound events handled by the engine",
			},
			[]string{"kind", "transport"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailpulse_signals_total",
				Help: "Signal publish decisions by outcome",
			},
			[]string{"outcome"},
		),
		refreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailpulse_snapshot_refresh_total",
				Help: "Snapshot refresh passes by result",
			},
			[]string{"result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retailpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		trackedItems: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "retailpulse_tracked_items",
				Help: "Number of tracked items per outlet",
			},
			[]string{"outlet"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retailpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvent records an inbound event by kind and transport.
func (r *Recorder) RecordEvent(kind, transport string) {
	r.eventsTotal.WithLabelValues(kind, transport).Inc()
}

// RecordSignal records a publish decision (published, suppressed, cleared).
func (r *Recorder) RecordSignal(outcome string) {
	r.signalsTotal.WithLabelValues(outcome).Inc()
}

// RecordRefresh records a snapshot refresh pass (ok, skipped, forced, error).
func (r *Recorder) RecordRefresh(result string) {
	r.refreshTotal.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTrackedItems records the tracked item count for an outlet.
func (r *Recorder) RecordTrackedItems(outlet string, n int) {
	r.trackedItems.WithLabelValues(outlet).Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
