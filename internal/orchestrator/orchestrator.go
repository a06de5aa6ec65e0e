// Package orchestrator sequences the legs of a cross-chain arbitrage:
// buy on the cheap chain, bridge, sell on the expensive chain.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Execution step names recorded on the result, in the order they occur.
const (
	StepEvaluated       = "evaluated"
	StepBuyExecuted     = "buy_executed"
	StepBridgeInitiated = "bridge_initiated"
	StepBridgeCompleted = "bridge_completed"
	StepBridgeStalled   = "bridge_stalled"
	StepSellExecuted    = "sell_executed"
)

// Evaluator scores a token's cross-chain spread.
type Evaluator interface {
	Evaluate(ctx context.Context, symbol string, notional float64) (*opportunity.Opportunity, error)
}

// Bridge moves notional between chains and blocks until the transfer
// reaches a terminal state.
type Bridge interface {
	InitiateTransfer(ctx context.Context, req types.TransferRequest) (*types.BridgeTransfer, error)
	AwaitCompletion(ctx context.Context, transfer *types.BridgeTransfer) (*types.BridgeTransfer, error)
}

// Trader executes one swap leg on one chain.
type Trader interface {
	Swap(ctx context.Context, chain types.ChainID, token string, side types.SwapSide, amount float64) (*types.SwapReceipt, error)
}

// Orchestrator runs arbitrage executions with per-token single-flight:
// at most one execution per token at a time, concurrent attempts are
// rejected rather than queued.
type Orchestrator struct {
	evaluator Evaluator
	bridge    Bridge
	trader    Trader
	logger    *zap.Logger

	mu        sync.Mutex
	executing map[string]struct{}
}

// Config holds orchestrator configuration.
type Config struct {
	Evaluator Evaluator
	Bridge    Bridge
	Trader    Trader
	Logger    *zap.Logger
}

// New creates an orchestrator.
func New(cfg *Config) *Orchestrator {
	return &Orchestrator{
		evaluator: cfg.Evaluator,
		bridge:    cfg.Bridge,
		trader:    cfg.Trader,
		logger:    cfg.Logger,
		executing: make(map[string]struct{}),
	}
}

// acquire takes the per-token execution slot.
func (o *Orchestrator) acquire(token string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, busy := o.executing[token]; busy {
		return fmt.Errorf("execute %s: %w", token, types.ErrAlreadyExecuting)
	}
	o.executing[token] = struct{}{}
	return nil
}

func (o *Orchestrator) release(token string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.executing, token)
}

// Execute runs one arbitrage attempt for the token end to end and returns
// an audit record of how far it got. The sell leg never runs before the
// bridge transfer reports Completed.
//
// No capital moves before the opportunity re-check passes: a spread below
// the profit floor returns ErrNotProfitable with zero trade and bridge
// calls. A bridge that stalls after the buy leg marks the result
// CapitalStranded; the buy transaction hash is preserved for recovery.
func (o *Orchestrator) Execute(ctx context.Context, token string, amount float64) (*types.ExecutionResult, error) {
	err := o.acquire(token)
	if err != nil {
		ExecutionsTotal.WithLabelValues("already_executing").Inc()
		return nil, err
	}
	defer o.release(token)

	start := time.Now()
	result := &types.ExecutionResult{
		ID:        uuid.New().String(),
		Token:     token,
		StartedAt: start,
	}

	finish := func(outcome string, execErr error) (*types.ExecutionResult, error) {
		result.FinishedAt = time.Now()
		result.Error = execErr
		ExecutionsTotal.WithLabelValues(outcome).Inc()
		ExecutionDurationSeconds.Observe(result.FinishedAt.Sub(start).Seconds())
		return result, execErr
	}

	// Re-evaluate just before committing capital; a monitor finding may
	// be stale by the time execution is requested.
	opp, err := o.evaluator.Evaluate(ctx, token, amount)
	if err != nil {
		return finish("evaluate_error", fmt.Errorf("execute %s: %w", token, err))
	}
	result.Steps = append(result.Steps, StepEvaluated)

	if !opp.Profitable {
		return finish("not_profitable", fmt.Errorf("execute %s: net %.4f at %.2f%%: %w",
			token, opp.NetProfit, opp.ProfitPercent, types.ErrNotProfitable))
	}

	o.logger.Info("execution-started",
		zap.String("execution-id", result.ID),
		zap.String("token", token),
		zap.Float64("amount", amount),
		zap.String("buy-chain", string(opp.BuyChain)),
		zap.String("sell-chain", string(opp.SellChain)),
		zap.Float64("expected-net-profit", opp.NetProfit))

	// Leg 1: buy on the cheap chain.
	buyReceipt, err := o.trader.Swap(ctx, opp.BuyChain, token, types.SideBuy, amount)
	if err != nil {
		return finish("buy_error", fmt.Errorf("execute %s: buy on %s: %w", token, opp.BuyChain, err))
	}
	result.Steps = append(result.Steps, StepBuyExecuted)
	result.TransactionHashes = append(result.TransactionHashes, buyReceipt.TxHash)

	// Leg 2: bridge to the sell chain. From here on capital is in flight
	// and every failure path must say where it ended up.
	transfer, err := o.bridge.InitiateTransfer(ctx, types.TransferRequest{
		SourceChain: opp.BuyChain,
		TargetChain: opp.SellChain,
		Token:       token,
		Amount:      amount,
	})
	if err != nil {
		result.CapitalStranded = true
		StrandedExecutionsTotal.Inc()
		return finish("bridge_error", fmt.Errorf("execute %s: initiate bridge: %w", token, err))
	}
	result.Steps = append(result.Steps, StepBridgeInitiated)
	if transfer.SourceTxHash != "" {
		result.TransactionHashes = append(result.TransactionHashes, transfer.SourceTxHash)
	}

	transfer, err = o.bridge.AwaitCompletion(ctx, transfer)
	if err != nil || transfer.Status != types.TransferCompleted {
		result.Steps = append(result.Steps, StepBridgeStalled)
		result.CapitalStranded = true
		StrandedExecutionsTotal.Inc()

		o.logger.Error("execution-capital-stranded",
			zap.String("execution-id", result.ID),
			zap.String("token", token),
			zap.String("transfer-id", transfer.ID),
			zap.String("buy-tx", buyReceipt.TxHash),
			zap.Error(err))

		if err == nil {
			err = fmt.Errorf("transfer %s: %s: %w", transfer.ID, transfer.FailureReason, types.ErrBridgeStalled)
		}
		return finish("bridge_stalled", fmt.Errorf("execute %s: %w", token, err))
	}
	result.Steps = append(result.Steps, StepBridgeCompleted)
	if transfer.TargetTxHash != "" {
		result.TransactionHashes = append(result.TransactionHashes, transfer.TargetTxHash)
	}

	// Leg 3: sell on the expensive chain.
	sellReceipt, err := o.trader.Swap(ctx, opp.SellChain, token, types.SideSell, amount)
	if err != nil {
		// Bridged but unsold: capital sits on the sell chain.
		result.CapitalStranded = true
		StrandedExecutionsTotal.Inc()
		return finish("sell_error", fmt.Errorf("execute %s: sell on %s: %w", token, opp.SellChain, err))
	}
	result.Steps = append(result.Steps, StepSellExecuted)
	result.TransactionHashes = append(result.TransactionHashes, sellReceipt.TxHash)

	result.Success = true
	result.Profit = realizedProfit(amount, buyReceipt, sellReceipt, opp.Quote)
	ProfitRealized.Observe(result.Profit)

	o.logger.Info("execution-completed",
		zap.String("execution-id", result.ID),
		zap.String("token", token),
		zap.Float64("profit", result.Profit),
		zap.Strings("tx-hashes", result.TransactionHashes))

	return finish("success", nil)
}

// realizedProfit converts fill prices into a net figure: the quantity the
// notional bought, repriced at the sell fill, minus bridge and gas costs.
func realizedProfit(notional float64, buy, sell *types.SwapReceipt, quote *types.Quote) float64 {
	if buy.FilledPrice <= 0 {
		return 0
	}
	qty := notional / buy.FilledPrice
	gross := qty * (sell.FilledPrice - buy.FilledPrice)
	if quote == nil {
		return gross
	}
	return gross - quote.TotalCost()
}
