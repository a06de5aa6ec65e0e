package types

import "time"

// PriceSample is a single USD-denominated spot price observation.
// Ephemeral; produced per price check and never persisted by the engine.
type PriceSample struct {
	Chain      ChainID   `json:"chain"`
	Symbol     string    `json:"symbol"`
	PriceUSD   float64   `json:"price_usd"`
	ObservedAt time.Time `json:"observed_at"`
}

// TransferRequest describes a cross-chain move of a token amount.
type TransferRequest struct {
	SourceChain ChainID `json:"source_chain"`
	TargetChain ChainID `json:"target_chain"`
	Token       string  `json:"token"`
	Amount      float64 `json:"amount"`
}

// Quote estimates the cost and latency of a single bridge transfer.
// Valid only for the instant it was computed; callers must not cache a
// quote across calls that change the amount or chain pair.
type Quote struct {
	EstimatedTransferSeconds int      `json:"estimated_transfer_seconds"`
	FeeNative                float64  `json:"fee_native"`
	Route                    []string `json:"route"`
	PriceImpact              float64  `json:"price_impact"`
	GasCostSource            float64  `json:"gas_cost_source"`
	GasCostTarget            float64  `json:"gas_cost_target"`
}

// TotalCost is the all-in cost of the transfer: bridge fee plus gas on
// both sides, in native units.
func (q *Quote) TotalCost() float64 {
	return q.FeeNative + q.GasCostSource + q.GasCostTarget
}
