// Package quote estimates the cost and latency of a bridge transfer:
// relayer fees plus per-side gas at current chain prices.
package quote

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Gas-unit estimates for a bridge transfer. The source side locks tokens
// into the bridge contract; the target side is the guardian-relayed mint.
const (
	sourceGasUnits = 200_000
	targetGasUnits = 150_000
)

const weiPerNative = 1e18

// Service computes bridge transfer quotes.
type Service struct {
	callers      map[types.ChainID]chainrpc.Caller
	baseFee      float64 // flat relayer fee, native units
	feeBps       float64 // proportional fee in basis points of amount
	transferSecs int     // conservative guardian-attestation latency
	callTimeout  time.Duration
	logger       *zap.Logger
}

// Config holds quote service configuration.
type Config struct {
	Callers         map[types.ChainID]chainrpc.Caller
	BaseFeeNative   float64
	FeeBps          float64
	TransferSeconds int
	CallTimeout     time.Duration
	Logger          *zap.Logger
}

// New creates a quote service.
func New(cfg *Config) *Service {
	return &Service{
		callers:      cfg.Callers,
		baseFee:      cfg.BaseFeeNative,
		feeBps:       cfg.FeeBps,
		transferSecs: cfg.TransferSeconds,
		callTimeout:  cfg.CallTimeout,
		logger:       cfg.Logger,
	}
}

// GetQuote estimates fees, gas and relay time for one transfer.
//
// Fails with ErrQuoteUnavailable if either chain's gas data is unreachable;
// a zero-cost quote is never returned silently.
func (s *Service) GetQuote(ctx context.Context, req types.TransferRequest) (*types.Quote, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %f", types.ErrQuoteUnavailable, req.Amount)
	}

	gasSource, err := s.gasCost(ctx, req.SourceChain, sourceGasUnits)
	if err != nil {
		QuotesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: source chain %s: %w", types.ErrQuoteUnavailable, req.SourceChain, err)
	}

	gasTarget, err := s.gasCost(ctx, req.TargetChain, targetGasUnits)
	if err != nil {
		QuotesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: target chain %s: %w", types.ErrQuoteUnavailable, req.TargetChain, err)
	}

	feeNative := s.baseFee + req.Amount*s.feeBps/10_000

	quote := &types.Quote{
		EstimatedTransferSeconds: s.transferSecs,
		FeeNative:                feeNative,
		Route:                    []string{string(req.SourceChain), "bridge", string(req.TargetChain)},
		PriceImpact:              0,
		GasCostSource:            gasSource,
		GasCostTarget:            gasTarget,
	}

	QuotesTotal.WithLabelValues("ok").Inc()
	FeeNativeHistogram.Observe(feeNative)

	s.logger.Debug("bridge-quote-computed",
		zap.String("source", string(req.SourceChain)),
		zap.String("target", string(req.TargetChain)),
		zap.String("token", req.Token),
		zap.Float64("amount", req.Amount),
		zap.Float64("fee-native", feeNative),
		zap.Float64("gas-source", gasSource),
		zap.Float64("gas-target", gasTarget))

	return quote, nil
}

// gasCost reads the chain's suggested gas price and multiplies by the fixed
// unit estimate, converted to native units.
func (s *Service) gasCost(ctx context.Context, chain types.ChainID, units uint64) (float64, error) {
	caller, ok := s.callers[chain]
	if !ok {
		return 0, fmt.Errorf("no RPC client for chain %s", chain)
	}

	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	gasPrice, err := caller.SuggestGasPrice(callCtx)
	if err != nil {
		return 0, fmt.Errorf("suggest gas price: %w", err)
	}

	costWei := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(units))
	cost, _ := new(big.Float).Quo(new(big.Float).SetInt(costWei), big.NewFloat(weiPerNative)).Float64()
	return cost, nil
}
