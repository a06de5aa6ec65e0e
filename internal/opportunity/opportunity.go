package opportunity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantfence/chainarb/pkg/types"
)

// Opportunity is the profitability verdict for one token across the chain
// pair. Derived and recomputed on every evaluation; never mutated in place.
type Opportunity struct {
	ID                string        `json:"id"`
	Token             string        `json:"token"`
	Notional          float64       `json:"notional"`
	ChainA            types.ChainID `json:"chain_a"`
	ChainB            types.ChainID `json:"chain_b"`
	PriceChainA       float64       `json:"price_chain_a"`
	PriceChainB       float64       `json:"price_chain_b"`
	PriceDifferential float64       `json:"price_differential"`
	ProfitPercent     float64       `json:"profit_percent"`
	BuyChain          types.ChainID `json:"buy_chain"`
	SellChain         types.ChainID `json:"sell_chain"`
	Quote             *types.Quote  `json:"quote"`
	GasEstimate       float64       `json:"gas_estimate"`
	GrossProfit       float64       `json:"gross_profit"`
	NetProfit         float64       `json:"net_profit"`
	Profitable        bool          `json:"profitable"`
	MinProfitPercent  float64       `json:"min_profit_percent"`
	ObservedAt        time.Time     `json:"observed_at"`
}

// NewOpportunity derives an opportunity from two price samples and a bridge
// quote. Pure arithmetic: identical inputs yield identical derived values.
//
// Direction is buy on the cheaper chain, sell on the dearer one. A tie
// yields zero profit percent and is never profitable.
func NewOpportunity(
	token string,
	notional float64,
	sampleA types.PriceSample,
	sampleB types.PriceSample,
	quote *types.Quote,
	minProfitPercent float64,
) *Opportunity {
	priceA := sampleA.PriceUSD
	priceB := sampleB.PriceUSD

	differential := priceB - priceA
	if differential < 0 {
		differential = -differential
	}

	minPrice := priceA
	buyChain, sellChain := sampleA.Chain, sampleB.Chain
	if priceB < priceA {
		minPrice = priceB
		buyChain, sellChain = sampleB.Chain, sampleA.Chain
	}

	profitPercent := 0.0
	if minPrice > 0 && differential > 0 {
		profitPercent = differential / minPrice * 100
	}

	grossProfit := differential * notional
	gasEstimate := quote.GasCostSource + quote.GasCostTarget
	netProfit := grossProfit - quote.FeeNative - gasEstimate

	return &Opportunity{
		ID:                uuid.New().String(),
		Token:             token,
		Notional:          notional,
		ChainA:            sampleA.Chain,
		ChainB:            sampleB.Chain,
		PriceChainA:       priceA,
		PriceChainB:       priceB,
		PriceDifferential: differential,
		ProfitPercent:     profitPercent,
		BuyChain:          buyChain,
		SellChain:         sellChain,
		Quote:             quote,
		GasEstimate:       gasEstimate,
		GrossProfit:       grossProfit,
		NetProfit:         netProfit,
		Profitable:        netProfit > 0 && profitPercent >= minProfitPercent,
		MinProfitPercent:  minProfitPercent,
		ObservedAt:        time.Now(),
	}
}

// String returns a human-readable representation of the opportunity.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] %s A=%.4f B=%.4f diff=%.4f pct=%.2f%% net=%.4f profitable=%v",
		o.ID[:8],
		o.Token,
		o.PriceChainA,
		o.PriceChainB,
		o.PriceDifferential,
		o.ProfitPercent,
		o.NetProfit,
		o.Profitable,
	)
}
