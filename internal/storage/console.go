package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

const consoleRule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreOpportunity pretty-prints an arbitrage opportunity to console.
func (c *ConsoleStorage) StoreOpportunity(ctx context.Context, opp *opportunity.Opportunity) error {
	fmt.Println("\n" + consoleRule)
	fmt.Printf("🎯 ARBITRAGE OPPORTUNITY DETECTED\n")
	fmt.Println(consoleRule)
	fmt.Printf("ID:       %s\n", shortID(opp.ID))
	fmt.Printf("Token:    %s\n", opp.Token)
	fmt.Printf("Route:    buy %s / sell %s\n", opp.BuyChain, opp.SellChain)
	fmt.Printf("Time:     %s\n", opp.ObservedAt.Format("2006-01-02 15:04:05"))
	fmt.Println(consoleRule)
	fmt.Printf("📊 PRICES\n")
	fmt.Printf("  %s:  %.6f\n", opp.ChainA, opp.PriceChainA)
	fmt.Printf("  %s:  %.6f\n", opp.ChainB, opp.PriceChainB)
	fmt.Printf("  Spread:  %.2f%% (floor: %.2f%%)\n", opp.ProfitPercent, opp.MinProfitPercent)
	fmt.Println(consoleRule)
	fmt.Printf("💰 PROFIT ANALYSIS\n")
	fmt.Printf("  Notional:        $%.2f\n", opp.Notional)
	fmt.Printf("  Gross Profit:    $%.2f\n", opp.GrossProfit)
	fmt.Printf("  Bridge + Gas:    $%.2f\n", opp.GrossProfit-opp.NetProfit)
	fmt.Printf("  Net Profit:      $%.2f\n", opp.NetProfit)
	if opp.Profitable {
		fmt.Printf("  ✅ PROFITABLE after fees!\n")
	} else {
		fmt.Printf("  ❌ NOT profitable after fees\n")
	}
	fmt.Println(consoleRule)

	return nil
}

// StoreExecution pretty-prints an execution outcome to console.
func (c *ConsoleStorage) StoreExecution(ctx context.Context, result *types.ExecutionResult) error {
	fmt.Println("\n" + consoleRule)
	if result.Success {
		fmt.Printf("✅ EXECUTION COMPLETED\n")
	} else {
		fmt.Printf("❌ EXECUTION FAILED\n")
	}
	fmt.Println(consoleRule)
	fmt.Printf("ID:       %s\n", shortID(result.ID))
	fmt.Printf("Token:    %s\n", result.Token)
	fmt.Printf("Profit:   $%.2f\n", result.Profit)
	fmt.Printf("Steps:    %s\n", strings.Join(result.Steps, " -> "))
	fmt.Printf("Txs:      %s\n", strings.Join(result.TransactionHashes, ", "))
	fmt.Printf("Elapsed:  %s\n", result.FinishedAt.Sub(result.StartedAt))
	if result.CapitalStranded {
		fmt.Printf("  ⚠️  CAPITAL STRANDED, manual recovery required\n")
	}
	fmt.Println(consoleRule)

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
