// Package oracle derives USD spot prices from on-chain swap-router quotes.
package oracle

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/internal/registry"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// V2-style router quote function. Returns the output amounts along the path
// for a given input amount, which for [token, stable] is the token's spot
// value in the stable asset.
const routerABIJSON = `[{"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"}]`

type chainParams struct {
	router         common.Address
	stable         common.Address
	stableDecimals uint8
}

// Oracle prices tokens by quoting one whole unit against each chain's
// stable reference asset through that chain's router contract.
type Oracle struct {
	callers       map[types.ChainID]chainrpc.Caller
	params        map[types.ChainID]chainParams
	registry      *registry.Registry
	routerABI     abi.ABI
	callTimeout   time.Duration
	retryAttempts int
	retryDelay    time.Duration
	logger        *zap.Logger
}

// Config holds oracle configuration.
type Config struct {
	Callers       map[types.ChainID]chainrpc.Caller
	Chains        map[types.ChainID]config.ChainConfig
	Registry      *registry.Registry
	CallTimeout   time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	Logger        *zap.Logger
}

// New creates a price oracle.
func New(cfg *Config) (*Oracle, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}

	params := make(map[types.ChainID]chainParams, len(cfg.Chains))
	for id, chain := range cfg.Chains {
		if !common.IsHexAddress(chain.RouterAddress) {
			return nil, fmt.Errorf("chain %s: invalid router address %q", id, chain.RouterAddress)
		}
		if !common.IsHexAddress(chain.StableAddress) {
			return nil, fmt.Errorf("chain %s: invalid stable address %q", id, chain.StableAddress)
		}
		params[id] = chainParams{
			router:         common.HexToAddress(chain.RouterAddress),
			stable:         common.HexToAddress(chain.StableAddress),
			stableDecimals: chain.StableDecimals,
		}
	}

	retryAttempts := cfg.RetryAttempts
	if retryAttempts < 1 {
		retryAttempts = 1
	}

	return &Oracle{
		callers:       cfg.Callers,
		params:        params,
		registry:      cfg.Registry,
		routerABI:     parsed,
		callTimeout:   cfg.CallTimeout,
		retryAttempts: retryAttempts,
		retryDelay:    cfg.RetryDelay,
		logger:        cfg.Logger,
	}, nil
}

// GetPrice returns the USD spot price of a token on one chain.
//
// RPC or router failures are retried with linear backoff; once attempts are
// exhausted the call fails with ErrPriceUnavailable. A price is never
// fabricated on failure.
func (o *Oracle) GetPrice(ctx context.Context, chain types.ChainID, symbol string) (types.PriceSample, error) {
	token, err := o.registry.Get(symbol)
	if err != nil {
		return types.PriceSample{}, err
	}

	tokenAddr, ok := token.AddressOn(chain)
	if !ok {
		return types.PriceSample{}, fmt.Errorf("%w: %s not deployed on %s", types.ErrUnknownToken, symbol, chain)
	}

	params, ok := o.params[chain]
	if !ok {
		return types.PriceSample{}, fmt.Errorf("%w: no router configured for chain %s", types.ErrPriceUnavailable, chain)
	}

	caller, ok := o.callers[chain]
	if !ok {
		return types.PriceSample{}, fmt.Errorf("%w: no RPC client for chain %s", types.ErrPriceUnavailable, chain)
	}

	var lastErr error
	for attempt := 1; attempt <= o.retryAttempts; attempt++ {
		price, err := o.quoteOnce(ctx, caller, params, tokenAddr, token.Decimals)
		if err == nil {
			PriceReadsTotal.WithLabelValues(string(chain), "ok").Inc()
			return types.PriceSample{
				Chain:      chain,
				Symbol:     symbol,
				PriceUSD:   price,
				ObservedAt: time.Now(),
			}, nil
		}

		lastErr = err
		o.logger.Warn("price-read-failed",
			zap.String("chain", string(chain)),
			zap.String("symbol", symbol),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < o.retryAttempts {
			select {
			case <-ctx.Done():
				PriceReadsTotal.WithLabelValues(string(chain), "error").Inc()
				return types.PriceSample{}, fmt.Errorf("%w: %s on %s: %w", types.ErrPriceUnavailable, symbol, chain, ctx.Err())
			case <-time.After(o.retryDelay * time.Duration(attempt)):
			}
		}
	}

	PriceReadsTotal.WithLabelValues(string(chain), "error").Inc()
	return types.PriceSample{}, fmt.Errorf("%w: %s on %s: %w", types.ErrPriceUnavailable, symbol, chain, lastErr)
}

// quoteOnce performs a single router getAmountsOut call for one whole unit
// of the token and converts the stable output through its decimals.
func (o *Oracle) quoteOnce(
	ctx context.Context,
	caller chainrpc.Caller,
	params chainParams,
	tokenAddr common.Address,
	tokenDecimals uint8,
) (float64, error) {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(tokenDecimals)), nil)
	path := []common.Address{tokenAddr, params.stable}

	input, err := o.routerABI.Pack("getAmountsOut", unit, path)
	if err != nil {
		return 0, fmt.Errorf("pack getAmountsOut: %w", err)
	}

	callCtx := ctx
	if o.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
	}

	start := time.Now()
	output, err := caller.CallContract(callCtx, ethereum.CallMsg{
		To:   &params.router,
		Data: input,
	}, nil)
	QuoteCallDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("router call: %w", err)
	}

	var amounts []*big.Int
	err = o.routerABI.UnpackIntoInterface(&amounts, "getAmountsOut", output)
	if err != nil {
		return 0, fmt.Errorf("unpack getAmountsOut: %w", err)
	}

	if len(amounts) < 2 || amounts[len(amounts)-1] == nil {
		return 0, fmt.Errorf("router returned %d amounts", len(amounts))
	}

	price := amountToFloat(amounts[len(amounts)-1], params.stableDecimals)
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("router returned non-finite price %f", price)
	}

	return price, nil
}

// amountToFloat converts an on-chain integer amount into a float through
// the asset's declared decimals.
func amountToFloat(amount *big.Int, decimals uint8) float64 {
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value := new(big.Float).Quo(new(big.Float).SetInt(amount), scale)
	out, _ := value.Float64()
	return out
}
