package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepsTotal counts completed watchlist sweeps.
	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainarb_monitor_sweeps_total",
		Help: "Completed watchlist sweeps",
	})

	// SweepErrorsTotal counts per-token evaluation failures.
	SweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainarb_monitor_sweep_errors_total",
		Help: "Token evaluations that failed during a sweep",
	})

	// OpportunitiesDetectedTotal counts profitable findings.
	OpportunitiesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainarb_monitor_opportunities_detected_total",
		Help: "Profitable opportunities detected",
	})

	// SweepDurationSeconds observes full-sweep latency.
	SweepDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainarb_monitor_sweep_duration_seconds",
		Help:    "Watchlist sweep duration",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)
