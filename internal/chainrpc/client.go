// Package chainrpc provides per-chain JSON-RPC clients for read-only
// contract calls and gas-fee queries.
package chainrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Caller is the read surface the oracle and quote service depend on.
// *Client satisfies it; tests inject fakes.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// Client wraps an ethclient connection to one chain.
type Client struct {
	chain  types.ChainID
	eth    *ethclient.Client
	logger *zap.Logger
}

// Dial connects to a chain's RPC endpoint.
func Dial(ctx context.Context, cfg config.ChainConfig, logger *zap.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s RPC: %w", cfg.ID, err)
	}

	logger.Info("chain-rpc-connected",
		zap.String("chain", string(cfg.ID)),
		zap.String("url", cfg.RPCURL))

	return &Client{
		chain:  cfg.ID,
		eth:    eth,
		logger: logger,
	}, nil
}

// Chain returns the chain this client is connected to.
func (c *Client) Chain() types.ChainID {
	return c.chain
}

// CallContract executes a read-only contract call at the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.eth.CallContract(ctx, msg, blockNumber)
}

// SuggestGasPrice returns the chain's current suggested gas price in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.eth.SuggestGasPrice(ctx)
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Pool holds one client per configured chain.
type Pool struct {
	clients map[types.ChainID]*Client
	logger  *zap.Logger
}

// NewPool dials every configured chain. Fails fast if any endpoint is
// unreachable; a half-connected engine cannot price both sides.
func NewPool(ctx context.Context, chains map[types.ChainID]config.ChainConfig, logger *zap.Logger) (*Pool, error) {
	pool := &Pool{
		clients: make(map[types.ChainID]*Client, len(chains)),
		logger:  logger,
	}

	for id, chainCfg := range chains {
		client, err := Dial(ctx, chainCfg, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect chain %s: %w", id, err)
		}
		pool.clients[id] = client
	}

	return pool, nil
}

// Client returns the client for a chain.
func (p *Pool) Client(chain types.ChainID) (*Client, error) {
	client, ok := p.clients[chain]
	if !ok {
		return nil, fmt.Errorf("no RPC client for chain %s", chain)
	}
	return client, nil
}

// Callers returns the pool as a map of the Caller interface, the shape the
// oracle and quote service are constructed with.
func (p *Pool) Callers() map[types.ChainID]Caller {
	callers := make(map[types.ChainID]Caller, len(p.clients))
	for id, client := range p.clients {
		callers[id] = client
	}
	return callers
}

// Close closes every client in the pool.
func (p *Pool) Close() {
	for _, client := range p.clients {
		client.Close()
	}
	p.logger.Info("chain-rpc-pool-closed")
}
