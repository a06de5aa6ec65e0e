// Package testutil provides in-memory fakes for the engine's boundary
// interfaces.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quantfence/chainarb/pkg/types"
)

// FakePriceSource serves scripted prices per chain.
type FakePriceSource struct {
	mu     sync.Mutex
	Prices map[types.ChainID]float64
	Errs   map[types.ChainID]error
	Calls  int
}

// GetPrice returns the scripted price or error for the chain.
func (f *FakePriceSource) GetPrice(ctx context.Context, chain types.ChainID, symbol string) (types.PriceSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if err, ok := f.Errs[chain]; ok && err != nil {
		return types.PriceSample{}, err
	}

	return types.PriceSample{
		Chain:      chain,
		Symbol:     symbol,
		PriceUSD:   f.Prices[chain],
		ObservedAt: time.Now(),
	}, nil
}

// CallCount returns how many price reads were served.
func (f *FakePriceSource) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls
}

// FakeQuoter serves one scripted quote.
type FakeQuoter struct {
	mu    sync.Mutex
	Quote *types.Quote
	Err   error
	Last  types.TransferRequest
	Calls int
}

// GetQuote returns the scripted quote or error.
func (f *FakeQuoter) GetQuote(ctx context.Context, req types.TransferRequest) (*types.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.Last = req

	if f.Err != nil {
		return nil, f.Err
	}

	q := *f.Quote
	return &q, nil
}

// SwapCall records one invocation of the fake trader.
type SwapCall struct {
	Chain  types.ChainID
	Token  string
	Side   types.SwapSide
	Amount float64
}

// FakeTrader records swap invocations and serves scripted receipts.
type FakeTrader struct {
	mu       sync.Mutex
	Receipts map[types.SwapSide]*types.SwapReceipt
	Errs     map[types.SwapSide]error
	Swaps    []SwapCall
	// Block, when set, delays each swap until the channel is closed.
	Block chan struct{}
}

// Swap records the call and returns the scripted receipt for the side.
func (f *FakeTrader) Swap(ctx context.Context, chain types.ChainID, token string, side types.SwapSide, amount float64) (*types.SwapReceipt, error) {
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Swaps = append(f.Swaps, SwapCall{Chain: chain, Token: token, Side: side, Amount: amount})

	if err, ok := f.Errs[side]; ok && err != nil {
		return nil, err
	}

	if receipt, ok := f.Receipts[side]; ok {
		r := *receipt
		return &r, nil
	}

	return &types.SwapReceipt{TxHash: "0xfake" + string(side), FilledPrice: 1.0}, nil
}

// SwapsBySide returns the recorded calls for one side.
func (f *FakeTrader) SwapsBySide(side types.SwapSide) []SwapCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []SwapCall
	for _, call := range f.Swaps {
		if call.Side == side {
			out = append(out, call)
		}
	}
	return out
}

// FakeBridge drives a scripted transfer lifecycle. Each PollStatus call
// advances through Statuses until the last entry, which then repeats.
type FakeBridge struct {
	mu          sync.Mutex
	Statuses    []types.TransferStatus
	InitiateErr error
	PollErr     error
	SourceTx    string
	TargetTx    string
	pollCount   int
	initiated   []types.TransferRequest
}

// InitiateTransfer returns a transfer in the first scripted status.
func (f *FakeBridge) InitiateTransfer(ctx context.Context, req types.TransferRequest) (*types.BridgeTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.InitiateErr != nil {
		return nil, f.InitiateErr
	}

	f.initiated = append(f.initiated, req)

	status := types.TransferInProgress
	if len(f.Statuses) > 0 {
		status = f.Statuses[0]
	}

	sourceTx := f.SourceTx
	if sourceTx == "" {
		sourceTx = "0xbridgesource"
	}

	return &types.BridgeTransfer{
		ID:                    uuid.New().String(),
		Request:               req,
		Status:                status,
		SourceTxHash:          sourceTx,
		CreatedAt:             time.Now(),
		EstimatedCompletionAt: time.Now().Add(time.Second),
	}, nil
}

// PollStatus advances the scripted status sequence.
func (f *FakeBridge) PollStatus(ctx context.Context, transfer *types.BridgeTransfer) (*types.BridgeTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PollErr != nil {
		return nil, f.PollErr
	}

	f.pollCount++

	updated := *transfer
	if len(f.Statuses) > 0 {
		idx := f.pollCount
		if idx >= len(f.Statuses) {
			idx = len(f.Statuses) - 1
		}
		updated.Status = f.Statuses[idx]
	}

	if updated.Status == types.TransferCompleted {
		targetTx := f.TargetTx
		if targetTx == "" {
			targetTx = "0xbridgetarget"
		}
		updated.TargetTxHash = targetTx
	}

	return &updated, nil
}

// AwaitCompletion polls through the scripted sequence until a terminal
// state. A sequence that never reaches one stalls: the transfer is
// returned Failed with an error wrapping ErrBridgeStalled.
func (f *FakeBridge) AwaitCompletion(ctx context.Context, transfer *types.BridgeTransfer) (*types.BridgeTransfer, error) {
	current := transfer
	for i := 0; i < len(f.Statuses)+2; i++ {
		if current.Status.IsTerminal() {
			break
		}

		next, err := f.PollStatus(ctx, current)
		if err != nil {
			return current, err
		}
		current = next
	}

	if current.Status == types.TransferCompleted {
		return current, nil
	}

	failed := *current
	failed.Status = types.TransferFailed
	if failed.FailureReason == "" {
		failed.FailureReason = "attestation timeout"
	}
	return &failed, fmt.Errorf("transfer %s: %w", current.ID, types.ErrBridgeStalled)
}

// PollCount returns how many polls were served.
func (f *FakeBridge) PollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pollCount
}

// Initiated returns the transfer requests accepted so far.
func (f *FakeBridge) Initiated() []types.TransferRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]types.TransferRequest, len(f.initiated))
	copy(out, f.initiated)
	return out
}
