package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PriceReadsTotal tracks price reads by chain and outcome.
	PriceReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainarb_oracle_price_reads_total",
			Help: "Total number of on-chain price reads",
		},
		[]string{"chain", "result"},
	)

	// QuoteCallDurationSeconds tracks router quote call latency.
	QuoteCallDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainarb_oracle_quote_call_duration_seconds",
		Help:    "Duration of router getAmountsOut calls",
		Buckets: prometheus.DefBuckets,
	})
)
