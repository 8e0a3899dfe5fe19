package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PointsMetrics records ledger activity and balance reconciliation outcomes.
type PointsMetrics struct {
	entries        *prometheus.CounterVec
	adjustDuration prometheus.Histogram
	mismatches     prometheus.Counter
}

// NewPointsMetrics registers the points metrics on the provided registerer.
func NewPointsMetrics(reg prometheus.Registerer) *PointsMetrics {
	if reg == nil {
		return &PointsMetrics{}
	}
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "points_ledger_entries_total",
		Help: "Ledger entries appended, labeled by transaction type.",
	}, []string{"transaction_type"})
	adjustDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "points_adjust_duration_seconds",
		Help:    "Duration of balance adjustments in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	mismatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "points_reconcile_mismatches_total",
		Help: "Cached balances that disagreed with the newest ledger entry.",
	})
	reg.MustRegister(entries, adjustDuration, mismatches)
	return &PointsMetrics{
		entries:        entries,
		adjustDuration: adjustDuration,
		mismatches:     mismatches,
	}
}

// IncEntry increments the ledger entry counter for the given transaction type.
func (p *PointsMetrics) IncEntry(transactionType string) {
	if p == nil || p.entries == nil {
		return
	}
	p.entries.WithLabelValues(normalizeLabel(transactionType)).Inc()
}

// ObserveAdjustDuration records how long a balance adjustment took.
func (p *PointsMetrics) ObserveAdjustDuration(duration time.Duration) {
	if p == nil || p.adjustDuration == nil {
		return
	}
	p.adjustDuration.Observe(duration.Seconds())
}

// IncMismatch counts a reconciliation mismatch.
func (p *PointsMetrics) IncMismatch() {
	if p == nil || p.mismatches == nil {
		return
	}
	p.mismatches.Inc()
}
