package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExecutionsTotal counts arbitrage executions by outcome.
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainarb_executions_total",
			Help: "Arbitrage executions by outcome",
		},
		[]string{"outcome"},
	)

	// ExecutionDurationSeconds observes end-to-end execution latency.
	ExecutionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chainarb_execution_duration_seconds",
			Help:    "End-to-end arbitrage execution duration",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		},
	)

	// ProfitRealized observes realized profit per successful execution.
	ProfitRealized = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chainarb_profit_realized",
			Help:    "Realized profit per successful execution",
			Buckets: prometheus.LinearBuckets(-50, 10, 21),
		},
	)

	// StrandedExecutionsTotal counts executions that left capital on a
	// chain it was not meant to stay on.
	StrandedExecutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainarb_stranded_executions_total",
			Help: "Executions that stranded capital mid-route",
		},
	)
)
