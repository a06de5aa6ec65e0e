package trader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SwapsTotal counts swap legs by trader mode, side, and result.
var SwapsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chainarb_swaps_total",
		Help: "Swap legs by trader mode, side, and result",
	},
	[]string{"mode", "side", "result"},
)
