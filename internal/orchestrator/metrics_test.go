package orchestrator

import (
	"testing"
)

// TestMetrics_Registration tests all metrics are initialized
func TestMetrics_Registration(t *testing.T) {
	if ExecutionsTotal == nil {
		t.Error("ExecutionsTotal not registered")
	}

	if ExecutionDurationSeconds == nil {
		t.Error("ExecutionDurationSeconds not registered")
	}

	if ProfitRealized == nil {
		t.Error("ProfitRealized not registered")
	}

	if StrandedExecutionsTotal == nil {
		t.Error("StrandedExecutionsTotal not registered")
	}
}

// TestMetrics_Labels tests label values are accepted
func TestMetrics_Labels(t *testing.T) {
	outcomes := []string{
		"success",
		"not_profitable",
		"already_executing",
		"evaluate_error",
		"buy_error",
		"bridge_error",
		"bridge_stalled",
		"sell_error",
	}

	for _, outcome := range outcomes {
		ExecutionsTotal.WithLabelValues(outcome).Inc()
	}
}

// TestMetrics_HistogramObserve tests histograms can observe values
func TestMetrics_HistogramObserve(t *testing.T) {
	ExecutionDurationSeconds.Observe(210.0)
	ProfitRealized.Observe(26.0)
	ProfitRealized.Observe(-12.5)
}
