package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersTotal tracks bridge transfers by lifecycle outcome.
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainarb_bridge_transfers_total",
			Help: "Total number of bridge transfer lifecycle events",
		},
		[]string{"event"},
	)

	// CompletionSeconds tracks time from initiation to completion.
	CompletionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chainarb_bridge_completion_seconds",
		Help:    "Time from transfer initiation to guardian-attested completion",
		Buckets: []float64{30, 60, 120, 180, 300, 600, 1200, 1800},
	})

	// FeedEventsTotal tracks attestation events delivered over the websocket feed.
	FeedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainarb_bridge_feed_events_total",
		Help: "Total number of attestation events delivered by the push feed",
	})

	// FeedReconnectsTotal tracks websocket feed reconnects.
	FeedReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chainarb_bridge_feed_reconnects_total",
		Help: "Total number of attestation feed reconnect attempts",
	})
)
