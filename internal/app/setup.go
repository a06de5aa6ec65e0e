package app

import (
	"context"
	"fmt"

	"github.com/quantfence/chainarb/internal/bridge"
	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/internal/monitor"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/internal/oracle"
	"github.com/quantfence/chainarb/internal/orchestrator"
	"github.com/quantfence/chainarb/internal/quote"
	"github.com/quantfence/chainarb/internal/registry"
	"github.com/quantfence/chainarb/internal/storage"
	"github.com/quantfence/chainarb/internal/trader"
	"github.com/quantfence/chainarb/pkg/cache"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/quantfence/chainarb/pkg/healthprobe"
	"github.com/quantfence/chainarb/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance. It dials both chain RPC
// endpoints eagerly so a bad endpoint fails startup instead of the first
// sweep.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	rpcPool, err := chainrpc.NewPool(ctx, cfg.Chains(), logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup rpc pool: %w", err)
	}

	snapshots, err := setupSnapshotCache(logger)
	if err != nil {
		cancel()
		rpcPool.Close()
		return nil, fmt.Errorf("setup snapshot cache: %w", err)
	}

	tokenRegistry, err := setupRegistry(cfg, logger)
	if err != nil {
		cancel()
		rpcPool.Close()
		snapshots.Close()
		return nil, fmt.Errorf("setup token registry: %w", err)
	}

	priceOracle, err := oracle.New(&oracle.Config{
		Callers:       rpcPool.Callers(),
		Chains:        cfg.Chains(),
		Registry:      tokenRegistry,
		CallTimeout:   cfg.RPCTimeout,
		RetryAttempts: cfg.PriceRetryAttempts,
		RetryDelay:    cfg.PriceRetryDelay,
		Logger:        logger,
	})
	if err != nil {
		cancel()
		rpcPool.Close()
		return nil, fmt.Errorf("setup oracle: %w", err)
	}

	quoteService := quote.New(&quote.Config{
		Callers:         rpcPool.Callers(),
		BaseFeeNative:   cfg.BridgeBaseFeeNative,
		FeeBps:          cfg.BridgeFeeBps,
		TransferSeconds: cfg.BridgeTransferSecs,
		CallTimeout:     cfg.RPCTimeout,
		Logger:          logger,
	})

	calculator := opportunity.New(&opportunity.Config{
		Prices:           priceOracle,
		Quotes:           quoteService,
		ChainA:           cfg.ChainA.ID,
		ChainB:           cfg.ChainB.ID,
		MinProfitPercent: cfg.MinProfitPercent,
		Logger:           logger,
	})

	bridgeFeed := setupBridgeFeed(cfg, logger)
	bridgeMachine := setupBridgeMachine(cfg, quoteService, bridgeFeed, logger)

	tradeExecutor := setupTrader(cfg, priceOracle, logger)

	auditStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		rpcPool.Close()
		snapshots.Close()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	arbOrchestrator := orchestrator.New(&orchestrator.Config{
		Evaluator: calculator,
		Bridge:    bridgeMachine,
		Trader:    tradeExecutor,
		Logger:    logger,
	})

	arbMonitor := monitor.New(&monitor.Config{
		Evaluator: calculator,
		Storage:   auditStorage,
		Snapshots: snapshots,
		Tokens:    cfg.WatchTokens,
		Notional:  cfg.NotionalAmount,
		Interval:  cfg.MonitorInterval,
		Logger:    logger,
	})

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Snapshots:     snapshots,
		Executor:      arbOrchestrator,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		rpcPool:       rpcPool,
		snapshots:     snapshots,
		bridgeFeed:    bridgeFeed,
		monitor:       arbMonitor,
		orchestrator:  arbOrchestrator,
		storage:       auditStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupSnapshotCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupRegistry(cfg *config.Config, logger *zap.Logger) (*registry.Registry, error) {
	if cfg.TokenFile == "" {
		return registry.New(), nil
	}

	reg, err := registry.NewFromFile(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	logger.Info("token-registry-extended",
		zap.String("file", cfg.TokenFile),
		zap.Strings("symbols", reg.Symbols()))
	return reg, nil
}

func setupBridgeFeed(cfg *config.Config, logger *zap.Logger) *bridge.AttestationFeed {
	if cfg.GuardianWSURL == "" {
		return nil
	}
	return bridge.NewAttestationFeed(cfg.GuardianWSURL, logger)
}

func setupBridgeMachine(cfg *config.Config, quotes bridge.Quoter, feed *bridge.AttestationFeed, logger *zap.Logger) *bridge.Machine {
	guardian := bridge.NewHTTPGuardian(cfg.GuardianAPIURL, cfg.RPCTimeout, logger)

	return bridge.New(&bridge.Config{
		Guardian:    guardian,
		Quotes:      quotes,
		Feed:        feed,
		TimeoutMult: cfg.BridgeTimeoutMult,
		PollInitial: cfg.BridgePollInitial,
		PollMax:     cfg.BridgePollMax,
		Logger:      logger,
	})
}

func setupTrader(cfg *config.Config, prices trader.PriceSource, logger *zap.Logger) trader.Trader {
	if cfg.TraderMode == "live" {
		return trader.NewHTTPTrader(cfg.TraderAPIURL, cfg.RPCTimeout, logger)
	}
	return trader.NewPaperTrader(prices, logger)
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		return storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
	}
	return storage.NewConsoleStorage(logger), nil
}
