package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flowstore"

var (
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatch",
		Name:      "total",
		Help:      "Total dispatched actions",
	}, []string{"action", "status"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "dispatch",
		Name:      "duration_seconds",
		Help:      "Time spent in the dispatch chain",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20),
	}, []string{"action"})

	DispatchInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dispatch",
		Name:      "in_flight",
		Help:      "Dispatches currently inside the middleware chain",
	})

	DisposablesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "disposable",
		Name:      "total",
		Help:      "Disposable middleware decisions",
	}, []string{"mode", "outcome"})

	JournalWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "writes_total",
		Help:      "Total journal writes",
	})

	JournalWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "write_duration_seconds",
		Help:      "Journal write duration",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20),
	})
)

const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusAsync    = "async"
)

// ActionLabel bounds the label cardinality: plain actions use their type,
// everything else is "async".
func ActionLabel(action any) string {
	if a, ok := action.(interface{ Type() string }); ok {
		return a.Type()
	}
	return StatusAsync
}
