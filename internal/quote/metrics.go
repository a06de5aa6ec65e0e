package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotesTotal tracks bridge quotes by outcome.
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainarb_quote_requests_total",
			Help: "Total number of bridge quote requests",
		},
		[]string{"result"},
	)

	// FeeNativeHistogram tracks computed bridge fees in native units.
	FeeNativeHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainarb_quote_fee_native",
		Help:    "Bridge fee estimates in native units",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
