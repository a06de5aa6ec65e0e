package opportunity

import (
	"testing"
	"time"

	"github.com/quantfence/chainarb/pkg/types"
	"github.com/stretchr/testify/assert"
)

func sampleAt(chain types.ChainID, price float64) types.PriceSample {
	return types.PriceSample{
		Chain:      chain,
		Symbol:     "WETH",
		PriceUSD:   price,
		ObservedAt: time.Now(),
	}
}

func TestNewOpportunity_Direction(t *testing.T) {
	quote := flatQuote(2, 1, 1)

	opp := NewOpportunity("WETH", 1000,
		sampleAt(types.ChainEthereum, 1.00),
		sampleAt(types.ChainPolygon, 1.03),
		quote, 0.5)

	assert.Equal(t, types.ChainEthereum, opp.BuyChain)
	assert.Equal(t, types.ChainPolygon, opp.SellChain)
	assert.InDelta(t, 3.0, opp.ProfitPercent, 1e-9)
	assert.InDelta(t, 26.0, opp.NetProfit, 1e-9)
	assert.True(t, opp.Profitable)
	assert.NotEmpty(t, opp.ID)
}

func TestNewOpportunity_Tie(t *testing.T) {
	opp := NewOpportunity("WETH", 1000,
		sampleAt(types.ChainEthereum, 2.50),
		sampleAt(types.ChainPolygon, 2.50),
		flatQuote(0, 0, 0), 0)

	assert.Zero(t, opp.ProfitPercent)
	assert.False(t, opp.Profitable)
}
