// Package opportunity evaluates cross-chain price divergence into a
// fee-aware profitability verdict.
package opportunity

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PriceSource reads a token's spot price on one chain.
type PriceSource interface {
	GetPrice(ctx context.Context, chain types.ChainID, symbol string) (types.PriceSample, error)
}

// Quoter estimates bridge transfer costs.
type Quoter interface {
	GetQuote(ctx context.Context, req types.TransferRequest) (*types.Quote, error)
}

// Calculator combines two chain prices and a bridge quote into an
// arbitrage opportunity.
type Calculator struct {
	prices           PriceSource
	quotes           Quoter
	chainA           types.ChainID
	chainB           types.ChainID
	minProfitPercent float64
	logger           *zap.Logger
}

// Config holds calculator configuration.
type Config struct {
	Prices           PriceSource
	Quotes           Quoter
	ChainA           types.ChainID
	ChainB           types.ChainID
	MinProfitPercent float64
	Logger           *zap.Logger
}

// New creates an opportunity calculator.
func New(cfg *Config) *Calculator {
	return &Calculator{
		prices:           cfg.Prices,
		quotes:           cfg.Quotes,
		chainA:           cfg.ChainA,
		chainB:           cfg.ChainB,
		minProfitPercent: cfg.MinProfitPercent,
		logger:           cfg.Logger,
	}
}

// Evaluate prices the token on both chains in parallel, quotes the move
// from the cheap chain to the expensive one, and scores the result.
//
// If either price read fails the whole evaluation fails with
// ErrPriceUnavailable; no opportunity is synthesized from partial data.
// Both reads are independent chain calls at "approximately now"; no
// cross-chain atomicity is implied.
func (c *Calculator) Evaluate(ctx context.Context, symbol string, notional float64) (*Opportunity, error) {
	start := time.Now()

	var sampleA, sampleB types.PriceSample
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sampleA, err = c.prices.GetPrice(gctx, c.chainA, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		sampleB, err = c.prices.GetPrice(gctx, c.chainB, symbol)
		return err
	})

	err := g.Wait()
	if err != nil {
		EvaluationsTotal.WithLabelValues("price_error").Inc()
		return nil, fmt.Errorf("evaluate %s: %w", symbol, err)
	}

	buyChain, sellChain := c.chainA, c.chainB
	if sampleB.PriceUSD < sampleA.PriceUSD {
		buyChain, sellChain = c.chainB, c.chainA
	}

	quote, err := c.quotes.GetQuote(ctx, types.TransferRequest{
		SourceChain: buyChain,
		TargetChain: sellChain,
		Token:       symbol,
		Amount:      notional,
	})
	if err != nil {
		EvaluationsTotal.WithLabelValues("quote_error").Inc()
		return nil, fmt.Errorf("evaluate %s: %w", symbol, err)
	}

	opp := NewOpportunity(symbol, notional, sampleA, sampleB, quote, c.minProfitPercent)

	EvaluationDurationSeconds.Observe(time.Since(start).Seconds())
	if opp.Profitable {
		EvaluationsTotal.WithLabelValues("profitable").Inc()
		NetProfitHistogram.Observe(opp.NetProfit)
	} else {
		EvaluationsTotal.WithLabelValues("not_profitable").Inc()
	}

	c.logger.Debug("opportunity-evaluated",
		zap.String("token", symbol),
		zap.Float64("price-a", opp.PriceChainA),
		zap.Float64("price-b", opp.PriceChainB),
		zap.Float64("profit-percent", opp.ProfitPercent),
		zap.Float64("net-profit", opp.NetProfit),
		zap.Bool("profitable", opp.Profitable))

	return opp, nil
}

// MinProfitPercent returns the configured profit floor.
func (c *Calculator) MinProfitPercent() float64 {
	return c.minProfitPercent
}
