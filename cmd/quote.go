package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/quantfence/chainarb/internal/chainrpc"
	"github.com/quantfence/chainarb/internal/quote"
	"github.com/quantfence/chainarb/pkg/config"
	"github.com/quantfence/chainarb/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var quoteCmd = &cobra.Command{
	Use:   "quote [token] [amount]",
	Short: "Quote a bridge transfer between the configured chains",
	Long: `Prints the estimated cost and latency of bridging the given token
amount from chain A to chain B: bridge fee, gas on both sides, route,
and the transfer time estimate the completion timeout derives from.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuote,
}

//nolint:gochecknoglobals
var quoteReverse bool

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().BoolVarP(&quoteReverse, "reverse", "r", false, "Quote chain B to chain A instead")
}

func runQuote(cmd *cobra.Command, args []string) error {
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

	var amount float64
	_, err = fmt.Sscanf(args[1], "%f", &amount)
	if err != nil || amount <= 0 {
		return fmt.Errorf("amount must be a positive number, got %q", args[1])
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := chainrpc.NewPool(ctx, cfg.Chains(), logger)
	if err != nil {
		return fmt.Errorf("connect chains: %w", err)
	}
	defer pool.Close()

	quoteService := quote.New(&quote.Config{
		Callers:         pool.Callers(),
		BaseFeeNative:   cfg.BridgeBaseFeeNative,
		FeeBps:          cfg.BridgeFeeBps,
		TransferSeconds: cfg.BridgeTransferSecs,
		CallTimeout:     cfg.RPCTimeout,
		Logger:          logger,
	})

	source, target := cfg.ChainA.ID, cfg.ChainB.ID
	if quoteReverse {
		source, target = target, source
	}

	q, err := quoteService.GetQuote(ctx, types.TransferRequest{
		SourceChain: source,
		TargetChain: target,
		Token:       args[0],
		Amount:      amount,
	})
	if err != nil {
		return fmt.Errorf("quote transfer: %w", err)
	}

	fmt.Printf("Route:          %s\n", strings.Join(q.Route, " -> "))
	fmt.Printf("Bridge fee:     %.6f\n", q.FeeNative)
	fmt.Printf("Gas (source):   %.6f\n", q.GasCostSource)
	fmt.Printf("Gas (target):   %.6f\n", q.GasCostTarget)
	fmt.Printf("Total cost:     %.6f\n", q.TotalCost())
	fmt.Printf("Est. transfer:  %ds\n", q.EstimatedTransferSeconds)
	return nil
}
