package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/cache"
	"github.com/quantfence/chainarb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedEvaluator serves per-token opportunities or errors.
type scriptedEvaluator struct {
	mu    sync.Mutex
	opps  map[string]*opportunity.Opportunity
	errs  map[string]error
	calls []string
}

func (e *scriptedEvaluator) Evaluate(ctx context.Context, symbol string, notional float64) (*opportunity.Opportunity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, symbol)

	if err, ok := e.errs[symbol]; ok && err != nil {
		return nil, err
	}

	opp := *e.opps[symbol]
	return &opp, nil
}

func (e *scriptedEvaluator) evaluated() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

type recordingStorage struct {
	mu     sync.Mutex
	stored []*opportunity.Opportunity
}

func (s *recordingStorage) StoreOpportunity(ctx context.Context, opp *opportunity.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, opp)
	return nil
}

func (s *recordingStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

func testOpp(token string, profitable bool) *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:            "opp-" + token,
		Token:         token,
		PriceChainA:   1.00,
		PriceChainB:   1.03,
		ProfitPercent: 3.0,
		BuyChain:      types.ChainEthereum,
		SellChain:     types.ChainPolygon,
		NetProfit:     26.0,
		Profitable:    profitable,
		ObservedAt:    time.Now(),
	}
}

func newSnapshotCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100,
		MaxCost:     10,
		BufferItems: 64,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestMonitor_SweepPublishesProfitableFindings(t *testing.T) {
	eval := &scriptedEvaluator{
		opps: map[string]*opportunity.Opportunity{
			"WETH": testOpp("WETH", true),
			"WBTC": testOpp("WBTC", false),
		},
	}
	storage := &recordingStorage{}

	m := New(&Config{
		Evaluator: eval,
		Storage:   storage,
		Tokens:    []string{"WETH", "WBTC"},
		Notional:  1000,
		Interval:  time.Hour,
		Logger:    zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))

	// Only the profitable token surfaces on the findings channel.
	select {
	case finding := <-m.Findings():
		assert.Equal(t, "WETH", finding.Token)
	case <-time.After(time.Second):
		t.Fatal("expected a finding from the initial sweep")
	}

	cancel()
	m.Wait()

	assert.ElementsMatch(t, []string{"WETH", "WBTC"}, eval.evaluated())
	assert.Equal(t, 1, storage.count())
}

func TestMonitor_OneFailingTokenDoesNotAbortSweep(t *testing.T) {
	eval := &scriptedEvaluator{
		opps: map[string]*opportunity.Opportunity{
			"WBTC": testOpp("WBTC", true),
		},
		errs: map[string]error{
			"WETH": types.ErrPriceUnavailable,
		},
	}

	m := New(&Config{
		Evaluator: eval,
		Tokens:    []string{"WETH", "WBTC"},
		Notional:  1000,
		Interval:  time.Hour,
		Logger:    zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))

	select {
	case finding := <-m.Findings():
		assert.Equal(t, "WBTC", finding.Token)
	case <-time.After(time.Second):
		t.Fatal("expected the healthy token to still be evaluated")
	}

	cancel()
	m.Wait()
}

func TestMonitor_SnapshotServedFromCache(t *testing.T) {
	eval := &scriptedEvaluator{
		opps: map[string]*opportunity.Opportunity{
			"WETH": testOpp("WETH", true),
			"WBTC": testOpp("WBTC", false),
		},
	}
	snapshots := newSnapshotCache(t)

	m := New(&Config{
		Evaluator: eval,
		Snapshots: snapshots,
		Tokens:    []string{"WETH", "WBTC"},
		Notional:  1000,
		Interval:  time.Hour,
		Logger:    zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))

	<-m.Findings()
	cancel()
	m.Wait()

	snapshots.(*cache.RistrettoCache).Wait()

	// The snapshot carries both tokens, profitable or not.
	opps := Snapshot(snapshots)
	require.Len(t, opps, 2)
	tokens := []string{opps[0].Token, opps[1].Token}
	assert.ElementsMatch(t, []string{"WETH", "WBTC"}, tokens)
}

func TestMonitor_FindingsClosedOnStop(t *testing.T) {
	eval := &scriptedEvaluator{
		opps: map[string]*opportunity.Opportunity{
			"WETH": testOpp("WETH", false),
		},
	}

	m := New(&Config{
		Evaluator: eval,
		Tokens:    []string{"WETH"},
		Notional:  1000,
		Interval:  time.Hour,
		Logger:    zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	cancel()
	m.Wait()

	_, open := <-m.Findings()
	assert.False(t, open)
}
