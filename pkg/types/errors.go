package types

import "errors"

// Engine error taxonomy. Callers classify failures with errors.Is; every
// layer wraps these with fmt.Errorf("...: %w", ...) to preserve context.
var (
	// ErrPriceUnavailable means one or both chain price reads failed.
	// The evaluation is aborted; a price is never synthesized.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrQuoteUnavailable means fee or gas data could not be fetched for a
	// bridge quote. A zero-cost quote is never returned in its place.
	ErrQuoteUnavailable = errors.New("bridge quote unavailable")

	// ErrNotProfitable is a normal negative result: the evaluation completed
	// but the opportunity is below the configured floor.
	ErrNotProfitable = errors.New("opportunity not profitable")

	// ErrBridgeStalled means a transfer did not reach Completed within its
	// timeout. Capital is stranded on the source or bridge side awaiting
	// recovery.
	ErrBridgeStalled = errors.New("bridge transfer stalled")

	// ErrAlreadyExecuting means a concurrent execution for the same token
	// holds the per-token lock.
	ErrAlreadyExecuting = errors.New("execution already in progress for token")

	// ErrUnknownToken means the symbol is not present in the token registry.
	ErrUnknownToken = errors.New("unknown token")
)

// Errors propagated from the external trade-execution collaborator.
var (
	ErrTxReverted            = errors.New("transaction reverted")
	ErrSlippageExceeded      = errors.New("slippage exceeded")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)
