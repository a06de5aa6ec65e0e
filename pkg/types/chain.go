package types

// ChainID identifies one of the chains the engine trades across.
type ChainID string

// Chains supported out of the box. The engine itself is chain-agnostic;
// anything with an EVM JSON-RPC endpoint and a V2-style router works.
const (
	ChainEthereum ChainID = "ethereum"
	ChainPolygon  ChainID = "polygon"
)

func (c ChainID) String() string {
	return string(c)
}
