package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records protocol operation activity: totals segmented by
// operation and outcome, plus the latency of ledger submissions.
type OperationMetrics struct {
	operations    *prometheus.CounterVec
	conflicts     *prometheus.CounterVec
	submitLatency *prometheus.HistogramVec
}

var (
	operationMetricsOnce sync.Once
	operationRegistry    *OperationMetrics
)

// Operations returns the lazily-initialised operation metrics registry.
func Operations() *OperationMetrics {
	operationMetricsOnce.Do(func() {
		operationRegistry = &OperationMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "verxio",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Total protocol operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "verxio",
				Subsystem: "engine",
				Name:      "version_conflicts_total",
				Help:      "Compare-and-swap rejections segmented by record kind.",
			}, []string{"kind"}),
			submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "verxio",
				Subsystem: "ledger",
				Name:      "submit_duration_seconds",
				Help:      "Latency distribution for ledger batch submissions.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			operationRegistry.operations,
			operationRegistry.conflicts,
			operationRegistry.submitLatency,
		)
	})
	return operationRegistry
}

// ObserveOperation increments the operation counter for the given outcome
// ("ok", "invalid", "error").
func (m *OperationMetrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveConflict counts a version-conflict rejection for the record kind.
func (m *OperationMetrics) ObserveConflict(kind string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(kind).Inc()
}

// ObserveSubmit records a ledger submission latency sample.
func (m *OperationMetrics) ObserveSubmit(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.submitLatency.WithLabelValues(outcome).Observe(d.Seconds())
}
