package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap/zaptest"
)

func testOpportunity() *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:                "11111111-2222-3333-4444-555555555555",
		Token:             "WETH",
		Notional:          1000,
		ChainA:            types.ChainEthereum,
		ChainB:            types.ChainPolygon,
		PriceChainA:       1.00,
		PriceChainB:       1.03,
		PriceDifferential: 0.03,
		ProfitPercent:     3.0,
		BuyChain:          types.ChainEthereum,
		SellChain:         types.ChainPolygon,
		GasEstimate:       2.0,
		GrossProfit:       30.0,
		NetProfit:         26.0,
		Profitable:        true,
		MinProfitPercent:  0.5,
		ObservedAt:        time.Now(),
	}
}

func testExecution() *types.ExecutionResult {
	return &types.ExecutionResult{
		ID:                "66666666-7777-8888-9999-000000000000",
		Token:             "WETH",
		Success:           true,
		Profit:            26.0,
		TransactionHashes: []string{"0xbuy", "0xsrc", "0xtgt", "0xsell"},
		Steps:             []string{"evaluated", "buy_executed", "bridge_initiated", "bridge_completed", "sell_executed"},
		StartedAt:         time.Now().Add(-time.Minute),
		FinishedAt:        time.Now(),
	}
}

func TestConsoleStorage_StoreOpportunity(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))
	opp := testOpportunity()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := storage.StoreOpportunity(context.Background(), opp)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	output := buf.String()

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains([]byte(output), []byte("ARBITRAGE OPPORTUNITY DETECTED")) {
		t.Error("expected output to contain 'ARBITRAGE OPPORTUNITY DETECTED'")
	}
	if !bytes.Contains([]byte(output), []byte("WETH")) {
		t.Error("expected output to contain the token symbol")
	}
	if !bytes.Contains([]byte(output), []byte("PROFITABLE")) {
		t.Error("expected output to contain the profitability verdict")
	}
}

func TestConsoleStorage_StoreExecution(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))
	result := testExecution()
	result.Success = false
	result.CapitalStranded = true

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := storage.StoreExecution(context.Background(), result)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	output := buf.String()

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains([]byte(output), []byte("EXECUTION FAILED")) {
		t.Error("expected output to contain 'EXECUTION FAILED'")
	}
	if !bytes.Contains([]byte(output), []byte("CAPITAL STRANDED")) {
		t.Error("expected output to flag stranded capital")
	}
}

func TestConsoleStorage_Close(t *testing.T) {
	storage := NewConsoleStorage(zaptest.NewLogger(t))

	err := storage.Close()
	if err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}
}

func TestPostgresStorage_StoreOpportunity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	opp := testOpportunity()

	mock.ExpectExec("INSERT INTO arbitrage_opportunities").
		WithArgs(
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
			sqlmock.AnyArg(), // ObservedAt
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.StoreOpportunity(context.Background(), opp)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_StoreOpportunity_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	mock.ExpectExec("INSERT INTO arbitrage_opportunities").
		WillReturnError(sqlmock.ErrCancelled)

	err = storage.StoreOpportunity(context.Background(), testOpportunity())
	if err == nil {
		t.Error("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_StoreExecution(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	result := testExecution()
	result.Error = errors.New("sell leg reverted")

	mock.ExpectExec("INSERT INTO executions").
		WithArgs(
			result.ID,
			result.Token,
			result.Success,
			result.Profit,
			sqlmock.AnyArg(), // transaction_hashes array
			sqlmock.AnyArg(), // steps array
			result.CapitalStranded,
			sqlmock.AnyArg(), // error_detail
			sqlmock.AnyArg(), // started_at
			sqlmock.AnyArg(), // finished_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.StoreExecution(context.Background(), result)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStorage_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	storage := &PostgresStorage{
		db:     db,
		logger: zaptest.NewLogger(t),
	}

	mock.ExpectClose()

	err = storage.Close()
	if err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
