package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/quantfence/chainarb/internal/bridge"
	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/internal/oracle"
	"github.com/quantfence/chainarb/internal/orchestrator"
	"github.com/quantfence/chainarb/internal/quote"
	"github.com/quantfence/chainarb/internal/trader"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var executeCmd = &cobra.Command{
	Use:   "execute [token]",
	Short: "Run one arbitrage execution end to end",
	Long: `Re-evaluates the token's spread and, if profitable, runs the full
route: buy on the cheap chain, bridge to the expensive chain, sell once
the transfer completes. Respects TRADER_MODE, so with the default paper
trader no capital moves.`,
	Args: cobra.ExactArgs(1),
	RunE: runExecute,
}

//nolint:gochecknoglobals
var executeNotional float64

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().Float64VarP(&executeNotional, "notional", "n", 0, "Trade notional in USD (defaults to NOTIONAL_AMOUNT)")
}

func runExecute(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	notional := executeNotional
	if notional <= 0 {
		notional = cfg.NotionalAmount
	}

	ctx := context.Background()

	tokenRegistry, err := buildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("load token registry: %w", err)
	}

	pool, err := chainrpc.NewPool(ctx, cfg.Chains(), logger)
	if err != nil {
		return fmt.Errorf("connect chains: %w", err)
	}
	defer pool.Close()

	priceOracle, err := oracle.New(&oracle.Config{
		Callers:       pool.Callers(),
		Chains:        cfg.Chains(),
		Registry:      tokenRegistry,
		CallTimeout:   cfg.RPCTimeout,
		RetryAttempts: cfg.PriceRetryAttempts,
		RetryDelay:    cfg.PriceRetryDelay,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("setup oracle: %w", err)
	}

	quoteService := quote.New(&quote.Config{
		Callers:         pool.Callers(),
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

	bridgeMachine := bridge.New(&bridge.Config{
		Guardian:    bridge.NewHTTPGuardian(cfg.GuardianAPIURL, cfg.RPCTimeout, logger),
		Quotes:      quoteService,
		TimeoutMult: cfg.BridgeTimeoutMult,
		PollInitial: cfg.BridgePollInitial,
		PollMax:     cfg.BridgePollMax,
		Logger:      logger,
	})

	var tradeExecutor trader.Trader
	if cfg.TraderMode == "live" {
		tradeExecutor = trader.NewHTTPTrader(cfg.TraderAPIURL, cfg.RPCTimeout, logger)
	} else {
		tradeExecutor = trader.NewPaperTrader(priceOracle, logger)
	}

	arbOrchestrator := orchestrator.New(&orchestrator.Config{
		Evaluator: calculator,
		Bridge:    bridgeMachine,
		Trader:    tradeExecutor,
		Logger:    logger,
	})

	start := time.Now()
	result, execErr := arbOrchestrator.Execute(ctx, args[0], notional)

	if result != nil {
		status := "FAILED"
		if result.Success {
			status = "SUCCESS"
		}
		fmt.Printf("Status:   %s\n", status)
		fmt.Printf("Token:    %s\n", result.Token)
		fmt.Printf("Profit:   $%.2f\n", result.Profit)
		fmt.Printf("Steps:    %s\n", strings.Join(result.Steps, " -> "))
		fmt.Printf("Txs:      %s\n", strings.Join(result.TransactionHashes, ", "))
		fmt.Printf("Elapsed:  %s\n", time.Since(start).Round(time.Millisecond))
		if result.CapitalStranded {
			fmt.Printf("WARNING:  capital stranded, manual recovery required\n")
		}
	}

	return execErr
}
