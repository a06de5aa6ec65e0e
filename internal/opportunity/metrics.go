package opportunity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationsTotal tracks evaluations by outcome.
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainarb_opportunity_evaluations_total",
			Help: "Total number of opportunity evaluations",
		},
		[]string{"result"},
	)

	// EvaluationDurationSeconds tracks end-to-end evaluation latency.
	EvaluationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainarb_opportunity_evaluation_duration_seconds",
		Help:    "Duration of opportunity evaluations including chain reads",
		Buckets: prometheus.DefBuckets,
	})

	// NetProfitHistogram tracks net profit of profitable opportunities.
	NetProfitHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainarb_opportunity_net_profit",
		Help:    "Net profit of profitable opportunities in reference units",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
