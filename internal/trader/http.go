package trader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Error codes the execution service returns on failed swaps.
const (
	codeTxReverted            = "tx_reverted"
	codeSlippageExceeded      = "slippage_exceeded"
	codeInsufficientLiquidity = "insufficient_liquidity"
)

// HTTPTrader routes swaps to an external execution service that holds the
// signing keys and broadcasts transactions.
type HTTPTrader struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPTrader creates a trader for the given execution service endpoint.
func NewHTTPTrader(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPTrader {
	return &HTTPTrader{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type swapRequest struct {
	Chain  string  `json:"chain"`
	Token  string  `json:"token"`
	Side   string  `json:"side"`
	Amount float64 `json:"amount"`
}

type swapResponse struct {
	TxHash      string  `json:"tx_hash"`
	FilledPrice float64 `json:"filled_price"`
	Error       string  `json:"error,omitempty"`
	ErrorCode   string  `json:"error_code,omitempty"`
}

// Swap submits the leg to the execution service and returns its receipt.
// Service-reported failures map onto the engine's error taxonomy so
// callers can branch on the cause.
func (t *HTTPTrader) Swap(ctx context.Context, chain types.ChainID, token string, side types.SwapSide, amount float64) (*types.SwapReceipt, error) {
	body, err := json.Marshal(swapRequest{
		Chain:  string(chain),
		Token:  token,
		Side:   string(side),
		Amount: amount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal swap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/swaps", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create swap request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		SwapsTotal.WithLabelValues("live", string(side), "error").Inc()
		return nil, fmt.Errorf("swap %s %s on %s: %w", side, token, chain, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read swap response: %w", err)
	}

	var swapResp swapResponse
	err = json.Unmarshal(respBody, &swapResp)
	if err != nil {
		return nil, fmt.Errorf("decode swap response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		SwapsTotal.WithLabelValues("live", string(side), "rejected").Inc()
		return nil, swapError(swapResp, resp.StatusCode)
	}

	if swapResp.TxHash == "" {
		return nil, fmt.Errorf("execution service filled swap without a tx hash")
	}

	SwapsTotal.WithLabelValues("live", string(side), "filled").Inc()
	t.logger.Info("swap-filled",
		zap.String("chain", string(chain)),
		zap.String("token", token),
		zap.String("side", string(side)),
		zap.Float64("amount", amount),
		zap.String("tx-hash", swapResp.TxHash),
		zap.Float64("filled-price", swapResp.FilledPrice))

	return &types.SwapReceipt{
		TxHash:      swapResp.TxHash,
		FilledPrice: swapResp.FilledPrice,
	}, nil
}

func swapError(resp swapResponse, statusCode int) error {
	detail := resp.Error
	if detail == "" {
		detail = fmt.Sprintf("status %d", statusCode)
	}

	switch resp.ErrorCode {
	case codeTxReverted:
		return fmt.Errorf("%s: %w", detail, types.ErrTxReverted)
	case codeSlippageExceeded:
		return fmt.Errorf("%s: %w", detail, types.ErrSlippageExceeded)
	case codeInsufficientLiquidity:
		return fmt.Errorf("%s: %w", detail, types.ErrInsufficientLiquidity)
	default:
		return fmt.Errorf("execution service rejected swap: %s", detail)
	}
}
