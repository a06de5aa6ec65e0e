// Package trader executes individual swap legs, either simulated against
// live oracle prices or routed to an external execution service.
package trader

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Trader executes one swap leg on one chain.
type Trader interface {
	Swap(ctx context.Context, chain types.ChainID, token string, side types.SwapSide, amount float64) (*types.SwapReceipt, error)
}

// PriceSource reads a token's spot price on one chain.
type PriceSource interface {
	GetPrice(ctx context.Context, chain types.ChainID, symbol string) (types.PriceSample, error)
}

// PaperTrader fills every swap at the current oracle price with a
// synthetic transaction hash. No capital moves.
type PaperTrader struct {
	prices PriceSource
	logger *zap.Logger
}

// NewPaperTrader creates a simulated trader backed by the price source.
func NewPaperTrader(prices PriceSource, logger *zap.Logger) *PaperTrader {
	return &PaperTrader{
		prices: prices,
		logger: logger,
	}
}

// Swap simulates a fill at the chain's current spot price.
func (t *PaperTrader) Swap(ctx context.Context, chain types.ChainID, token string, side types.SwapSide, amount float64) (*types.SwapReceipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("paper swap %s %s: amount must be positive, got %f", side, token, amount)
	}

	sample, err := t.prices.GetPrice(ctx, chain, token)
	if err != nil {
		SwapsTotal.WithLabelValues("paper", string(side), "error").Inc()
		return nil, fmt.Errorf("paper swap %s %s on %s: %w", side, token, chain, err)
	}

	receipt := &types.SwapReceipt{
		TxHash:      "0xpaper-" + uuid.New().String(),
		FilledPrice: sample.PriceUSD,
	}

	SwapsTotal.WithLabelValues("paper", string(side), "filled").Inc()
	t.logger.Info("paper-swap-filled",
		zap.String("chain", string(chain)),
		zap.String("token", token),
		zap.String("side", string(side)),
		zap.Float64("amount", amount),
		zap.Float64("filled-price", receipt.FilledPrice))

	return receipt, nil
}
