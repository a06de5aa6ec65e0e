package storage

import (
	"context"

	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/types"
)

// Storage is the interface for the engine's audit trail.
type Storage interface {
	// StoreOpportunity stores a detected arbitrage opportunity.
	StoreOpportunity(ctx context.Context, opp *opportunity.Opportunity) error

	// StoreExecution stores the outcome of an arbitrage execution.
	StoreExecution(ctx context.Context, result *types.ExecutionResult) error

	// Close closes the storage connection.
	Close() error
}
