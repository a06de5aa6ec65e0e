package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantfence/chainarb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownToken(t *testing.T) {
	reg := New()

	info, err := reg.Get("WETH")
	require.NoError(t, err)
	assert.Equal(t, "WETH", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)

	addr, ok := info.AddressOn(types.ChainEthereum)
	require.True(t, ok)
	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", addr.Hex())

	_, ok = info.AddressOn(types.ChainID("arbitrum"))
	assert.False(t, ok)
}

func TestGet_UnknownToken(t *testing.T) {
	reg := New()

	_, err := reg.Get("DOGE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnknownToken))
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	content := `{
		"tokens": [
			{
				"symbol": "AAVE",
				"decimals": 18,
				"addresses": {
					"ethereum": "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9",
					"polygon": "0xD6DF932A45C0f255f85145f286eA0b292B21C90B"
				}
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := NewFromFile(path)
	require.NoError(t, err)

	// File entries extend the defaults.
	info, err := reg.Get("AAVE")
	require.NoError(t, err)
	assert.Equal(t, uint8(18), info.Decimals)

	_, err = reg.Get("WETH")
	assert.NoError(t, err)
}

func TestNewFromFile_InvalidAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	content := `{"tokens": [{"symbol": "BAD", "decimals": 18, "addresses": {"ethereum": "not-an-address"}}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := NewFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestSymbols(t *testing.T) {
	reg := New()
	symbols := reg.Symbols()
	assert.Contains(t, symbols, "WETH")
	assert.Contains(t, symbols, "WBTC")
}
