// Package monitor periodically sweeps the watchlist for cross-chain
// arbitrage opportunities.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/cache"
	"go.uber.org/zap"
)

// SnapshotKey is the cache key holding the latest sweep's opportunities.
const SnapshotKey = "opportunities:latest"

// Evaluator scores a token's cross-chain spread.
type Evaluator interface {
	Evaluate(ctx context.Context, symbol string, notional float64) (*opportunity.Opportunity, error)
}

// Storage is the interface for persisting detected opportunities.
type Storage interface {
	StoreOpportunity(ctx context.Context, opp *opportunity.Opportunity) error
}

// Monitor evaluates every watched token on a fixed interval. Tokens are
// evaluated sequentially within a sweep so a slow RPC on one token delays
// the rest of the cycle rather than piling up concurrent chain calls.
type Monitor struct {
	evaluator Evaluator
	storage   Storage
	snapshots cache.Cache
	tokens    []string
	notional  float64
	interval  time.Duration
	logger    *zap.Logger

	findingsChan chan *opportunity.Opportunity
	wg           sync.WaitGroup
}

// Config holds monitor configuration.
type Config struct {
	Evaluator Evaluator
	Storage   Storage
	Snapshots cache.Cache
	Tokens    []string
	Notional  float64
	Interval  time.Duration
	Logger    *zap.Logger
}

// New creates a monitor.
func New(cfg *Config) *Monitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Monitor{
		evaluator:    cfg.Evaluator,
		storage:      cfg.Storage,
		snapshots:    cfg.Snapshots,
		tokens:       cfg.Tokens,
		notional:     cfg.Notional,
		interval:     interval,
		logger:       cfg.Logger,
		findingsChan: make(chan *opportunity.Opportunity, 50),
	}
}

// Findings returns the channel delivering profitable opportunities as
// they are detected. Closed when the monitor stops.
func (m *Monitor) Findings() <-chan *opportunity.Opportunity {
	return m.findingsChan
}

// Start launches the sweep loop. The first sweep runs immediately.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("monitor-starting",
		zap.Strings("tokens", m.tokens),
		zap.Float64("notional", m.notional),
		zap.Duration("interval", m.interval))

	m.wg.Add(1)
	go m.sweepLoop(ctx)

	return nil
}

// Wait blocks until the sweep loop has exited.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

func (m *Monitor) sweepLoop(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.findingsChan)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor-stopping")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep evaluates every watched token once and publishes the results.
func (m *Monitor) sweep(ctx context.Context) {
	start := time.Now()
	snapshot := make([]*opportunity.Opportunity, 0, len(m.tokens))

	for _, token := range m.tokens {
		if ctx.Err() != nil {
			return
		}

		opp, err := m.evaluator.Evaluate(ctx, token, m.notional)
		if err != nil {
			// One token failing must not abort the sweep; stale or
			// missing prices on one pair say nothing about the others.
			SweepErrorsTotal.Inc()
			m.logger.Warn("monitor-evaluation-failed",
				zap.String("token", token),
				zap.Error(err))
			continue
		}

		snapshot = append(snapshot, opp)

		if opp.Profitable {
			OpportunitiesDetectedTotal.Inc()
			m.logger.Info("opportunity-detected",
				zap.String("token", token),
				zap.String("buy-chain", string(opp.BuyChain)),
				zap.String("sell-chain", string(opp.SellChain)),
				zap.Float64("profit-percent", opp.ProfitPercent),
				zap.Float64("net-profit", opp.NetProfit))

			m.persist(ctx, opp)
			m.publish(opp)
		}
	}

	if m.snapshots != nil {
		m.snapshots.Set(SnapshotKey, snapshot, 2*m.interval)
	}

	SweepsTotal.Inc()
	SweepDurationSeconds.Observe(time.Since(start).Seconds())
	m.logger.Debug("monitor-sweep-completed",
		zap.Int("evaluated", len(snapshot)),
		zap.Duration("elapsed", time.Since(start)))
}

func (m *Monitor) persist(ctx context.Context, opp *opportunity.Opportunity) {
	if m.storage == nil {
		return
	}

	err := m.storage.StoreOpportunity(ctx, opp)
	if err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn("monitor-store-failed",
			zap.String("token", opp.Token),
			zap.Error(err))
	}
}

func (m *Monitor) publish(opp *opportunity.Opportunity) {
	select {
	case m.findingsChan <- opp:
	default:
		// Consumer is behind; the snapshot cache still has the latest
		// state, so dropping is safer than blocking the sweep.
		m.logger.Warn("monitor-findings-dropped", zap.String("token", opp.Token))
	}
}

// Snapshot reads the latest sweep results from the cache.
func Snapshot(snapshots cache.Cache) []*opportunity.Opportunity {
	value, found := snapshots.Get(SnapshotKey)
	if !found {
		return nil
	}

	opps, ok := value.([]*opportunity.Opportunity)
	if !ok {
		return nil
	}
	return opps
}

var _ Evaluator = (*opportunity.Calculator)(nil)
