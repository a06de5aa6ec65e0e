package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/internal/oracle"
	"github.com/quantfence/chainarb/internal/quote"
	"github.com/quantfence/chainarb/internal/registry"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [token]",
	Short: "Evaluate one token's cross-chain spread",
	Long: `Prices the token on both configured chains, quotes the bridge
transfer from the cheap chain to the expensive one, and prints the
fee-aware profitability verdict. Read-only: no capital moves.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

//nolint:gochecknoglobals
var evaluateNotional float64

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().Float64VarP(&evaluateNotional, "notional", "n", 0, "Trade notional in USD (defaults to NOTIONAL_AMOUNT)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
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

	notional := evaluateNotional
	if notional <= 0 {
		notional = cfg.NotionalAmount
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	calculator, closePool, err := buildCalculator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePool()

	opp, err := calculator.Evaluate(ctx, args[0], notional)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", args[0], err)
	}

	fmt.Println(opp.String())
	return nil
}

// buildCalculator wires the read-only evaluation path: RPC pool, oracle,
// quote service, calculator. The returned func closes the pool.
func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.TokenFile == "" {
		return registry.New(), nil
	}
	return registry.NewFromFile(cfg.TokenFile)
}

func buildCalculator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*opportunity.Calculator, func(), error) {
	tokenRegistry, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load token registry: %w", err)
	}

	pool, err := chainrpc.NewPool(ctx, cfg.Chains(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect chains: %w", err)
	}

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
		pool.Close()
		return nil, nil, fmt.Errorf("setup oracle: %w", err)
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

	return calculator, pool.Close, nil
}
