// Package registry holds the static mapping of tradable symbols to their
// per-chain contract addresses and decimal precision.
package registry

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	json "github.com/goccy/go-json"
	"github.com/quantfence/chainarb/pkg/types"
)

// Registry is a read-only symbol lookup table. Loaded once at startup;
// safe for concurrent use without locking after that.
type Registry struct {
	tokens map[string]*types.TokenInfo
}

// defaultTokens covers the assets the engine watches out of the box:
// canonical mainnet deployments and their Polygon bridged counterparts.
var defaultTokens = map[string]*types.TokenInfo{
	"WETH": {
		Symbol:   "WETH",
		Decimals: 18,
		Addresses: map[types.ChainID]common.Address{
			types.ChainEthereum: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
			types.ChainPolygon:  common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"),
		},
	},
	"WBTC": {
		Symbol:   "WBTC",
		Decimals: 8,
		Addresses: map[types.ChainID]common.Address{
			types.ChainEthereum: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"),
			types.ChainPolygon:  common.HexToAddress("0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6"),
		},
	},
	"LINK": {
		Symbol:   "LINK",
		Decimals: 18,
		Addresses: map[types.ChainID]common.Address{
			types.ChainEthereum: common.HexToAddress("0x514910771AF9Ca656af840dff83E8264EcF986CA"),
			types.ChainPolygon:  common.HexToAddress("0x53E0bca35eC356BD5ddDFebbD1Fc0fD03FaBad39"),
		},
	},
	"UNI": {
		Symbol:   "UNI",
		Decimals: 18,
		Addresses: map[types.ChainID]common.Address{
			types.ChainEthereum: common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"),
			types.ChainPolygon:  common.HexToAddress("0xb33EaAd8d922B1083446DC23f610c2567fB5180f"),
		},
	},
}

// New returns a registry preloaded with the default token set.
func New() *Registry {
	tokens := make(map[string]*types.TokenInfo, len(defaultTokens))
	for sym, info := range defaultTokens {
		tokens[sym] = info
	}
	return &Registry{tokens: tokens}
}

// tokenFile is the on-disk override format.
type tokenFile struct {
	Tokens []struct {
		Symbol    string            `json:"symbol"`
		Decimals  uint8             `json:"decimals"`
		Addresses map[string]string `json:"addresses"`
	} `json:"tokens"`
}

// NewFromFile returns a registry with the defaults replaced or extended by
// entries from a JSON file.
func NewFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var file tokenFile
	err = json.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}

	reg := New()
	for _, entry := range file.Tokens {
		if entry.Symbol == "" {
			return nil, fmt.Errorf("token entry missing symbol")
		}
		info := &types.TokenInfo{
			Symbol:    entry.Symbol,
			Decimals:  entry.Decimals,
			Addresses: make(map[types.ChainID]common.Address, len(entry.Addresses)),
		}
		for chain, addr := range entry.Addresses {
			if !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("token %s: invalid address %q on chain %s", entry.Symbol, addr, chain)
			}
			info.Addresses[types.ChainID(chain)] = common.HexToAddress(addr)
		}
		reg.tokens[entry.Symbol] = info
	}

	return reg, nil
}

// Get returns the token info for a symbol.
func (r *Registry) Get(symbol string) (*types.TokenInfo, error) {
	info, ok := r.tokens[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownToken, symbol)
	}
	return info, nil
}

// Symbols returns all registered symbols.
func (r *Registry) Symbols() []string {
	symbols := make([]string, 0, len(r.tokens))
	for sym := range r.tokens {
		symbols = append(symbols, sym)
	}
	return symbols
}
