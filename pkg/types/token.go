package types

import "github.com/ethereum/go-ethereum/common"

// TokenInfo describes a tradable asset and its per-chain deployments.
// Immutable after registry load.
type TokenInfo struct {
	Symbol    string
	Addresses map[ChainID]common.Address
	Decimals  uint8
}

// AddressOn returns the token's contract address on the given chain.
func (t *TokenInfo) AddressOn(chain ChainID) (common.Address, bool) {
	addr, ok := t.Addresses[chain]
	return addr, ok
}
