package types

import "time"

// SwapSide is the direction of a trade leg.
type SwapSide string

const (
	SideBuy  SwapSide = "BUY"
	SideSell SwapSide = "SELL"
)

// SwapReceipt is the result of one executed trade leg.
type SwapReceipt struct {
	TxHash      string  `json:"tx_hash"`
	FilledPrice float64 `json:"filled_price"`
}

// ExecutionResult is the audit record for one orchestrated arbitrage
// attempt. Immutable after return: steps and hashes are appended in the
// order they occurred and describe how far the attempt progressed.
type ExecutionResult struct {
	ID                string    `json:"id"`
	Token             string    `json:"token"`
	Success           bool      `json:"success"`
	Profit            float64   `json:"profit"`
	TransactionHashes []string  `json:"transaction_hashes"`
	Steps             []string  `json:"steps"`
	// CapitalStranded marks a partial execution: the buy leg settled but
	// the bridge never completed, so notional sits on the wrong chain.
	CapitalStranded bool      `json:"capital_stranded"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Error           error     `json:"-"`
}
