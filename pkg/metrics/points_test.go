package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPointsMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPointsMetrics(reg)
	metrics.IncEntry("purchase")
	metrics.IncEntry("purchase")
	metrics.IncEntry("bonus")
	metrics.ObserveAdjustDuration(120 * time.Millisecond)
	metrics.IncMismatch()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "points_ledger_entries_total", "transaction_type", "purchase"); err != nil {
		t.Fatalf("fetch entries: %v", err)
	} else if got != 2 {
		t.Fatalf("expected purchase entries=2, got %f", got)
	}

	mf := findMetricFamily(mfs, "points_reconcile_mismatches_total")
	if mf == nil {
		t.Fatal("mismatch counter not registered")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected mismatches=1, got %f", got)
	}

	dur := findMetricFamily(mfs, "points_adjust_duration_seconds")
	if dur == nil {
		t.Fatal("adjust duration histogram not registered")
	}
	if got := dur.GetMetric()[0].GetHistogram().GetSampleSum(); got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPointsMetricsNilSafe(t *testing.T) {
	var metrics *PointsMetrics
	metrics.IncEntry("purchase")
	metrics.ObserveAdjustDuration(time.Millisecond)
	metrics.IncMismatch()
}
