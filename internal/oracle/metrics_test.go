package oracle

import (
	"testing"
)

// TestMetrics_Registration tests all metrics are initialized
func TestMetrics_Registration(t *testing.T) {
	if PriceReadsTotal == nil {
		t.Error("PriceReadsTotal not registered")
	}

	if QuoteCallDurationSeconds == nil {
		t.Error("QuoteCallDurationSeconds not registered")
	}
}

// TestMetrics_Labels tests label values are accepted
func TestMetrics_Labels(t *testing.T) {
	PriceReadsTotal.WithLabelValues("ethereum", "ok").Inc()
	PriceReadsTotal.WithLabelValues("ethereum", "error").Inc()
	PriceReadsTotal.WithLabelValues("polygon", "ok").Inc()
}

// TestMetrics_HistogramObserve tests histogram can observe values
func TestMetrics_HistogramObserve(t *testing.T) {
	QuoteCallDurationSeconds.Observe(0.05)
}
