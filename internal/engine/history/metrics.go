package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for a History.
// A nil *Metrics records nothing.
type Metrics struct {
	operations    *prometheus.CounterVec
	depth         *prometheus.GaugeVec
	snapshotBytes prometheus.Histogram
}

// NewMetrics creates the history collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docstorm",
			Subsystem: "history",
			Name:      "operations_total",
			Help:      "Total number of history operations by kind",
		}, []string{"op"}),

		depth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "docstorm",
			Subsystem: "history",
			Name:      "depth",
			Help:      "Current number of entries on each history stack",
		}, []string{"stack"}),

		snapshotBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docstorm",
			Subsystem: "history",
			Name:      "snapshot_bytes",
			Help:      "Encoded snapshot size in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
}

func (m *Metrics) observe(op string, undo, redo int) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
	m.depth.WithLabelValues("undo").Set(float64(undo))
	m.depth.WithLabelValues("redo").Set(float64(redo))
}

func (m *Metrics) observeSnapshot(size int) {
	if m == nil {
		return
	}
	m.snapshotBytes.Observe(float64(size))
}
