package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreOpportunity stores an arbitrage opportunity in PostgreSQL.
func (p *PostgresStorage) StoreOpportunity(ctx context.Context, opp *opportunity.Opportunity) error {
	query := `
		INSERT INTO arbitrage_opportunities (
			id, token, notional, chain_a, chain_b,
			price_chain_a, price_chain_b, price_differential, profit_percent,
			buy_chain, sell_chain, gas_estimate,
			gross_profit, net_profit, profitable,
			min_profit_percent, observed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		opp.ID,
		opp.Token,
		opp.Notional,
		string(opp.ChainA),
		string(opp.ChainB),
		opp.PriceChainA,
		opp.PriceChainB,
		opp.PriceDifferential,
		opp.ProfitPercent,
		string(opp.BuyChain),
		string(opp.SellChain),
		opp.GasEstimate,
		opp.GrossProfit,
		opp.NetProfit,
		opp.Profitable,
		opp.MinProfitPercent,
		opp.ObservedAt,
	)

	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	p.logger.Debug("opportunity-stored",
		zap.String("opportunity-id", opp.ID),
		zap.String("token", opp.Token),
		zap.Float64("net-profit", opp.NetProfit))

	return nil
}

// StoreExecution stores an execution outcome in PostgreSQL.
func (p *PostgresStorage) StoreExecution(ctx context.Context, result *types.ExecutionResult) error {
	query := `
		INSERT INTO executions (
			id, token, success, profit, transaction_hashes, steps,
			capital_stranded, error_detail, started_at, finished_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	var errorDetail sql.NullString
	if result.Error != nil {
		errorDetail = sql.NullString{String: result.Error.Error(), Valid: true}
	}

	_, err := p.db.ExecContext(ctx, query,
		result.ID,
		result.Token,
		result.Success,
		result.Profit,
		pq.Array(result.TransactionHashes),
		pq.Array(result.Steps),
		result.CapitalStranded,
		errorDetail,
		result.StartedAt,
		result.FinishedAt,
	)

	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}

	p.logger.Debug("execution-stored",
		zap.String("execution-id", result.ID),
		zap.Bool("success", result.Success),
		zap.Bool("capital-stranded", result.CapitalStranded))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
