package bridge

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

// Attestation statuses reported by the guardian network.
const (
	AttestationPending  = "pending"
	AttestationAttested = "attested"
	AttestationFailed   = "failed"
)

// Attestation is the guardian network's observation of a source-chain
// transfer. The proof payload is opaque to the engine.
type Attestation struct {
	Status       string `json:"status"`
	TargetTxHash string `json:"target_tx_hash,omitempty"`
	Proof        []byte `json:"proof,omitempty"`
}

// GuardianClient is the boundary to the external bridge/guardian network:
// it broadcasts the source-chain transfer and serves attestation lookups.
type GuardianClient interface {
	SubmitTransfer(ctx context.Context, req types.TransferRequest) (sourceTxHash string, err error)
	Attestation(ctx context.Context, sourceTxHash string) (*Attestation, error)
}

// HTTPGuardian talks to a guardian relayer over its REST API.
type HTTPGuardian struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPGuardian creates a guardian client for the given endpoint.
func NewHTTPGuardian(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPGuardian {
	return &HTTPGuardian{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type submitRequest struct {
	SourceChain string  `json:"source_chain"`
	TargetChain string  `json:"target_chain"`
	Token       string  `json:"token"`
	Amount      float64 `json:"amount"`
}

type submitResponse struct {
	SourceTxHash string `json:"source_tx_hash"`
}

// SubmitTransfer asks the relayer to broadcast the source-chain lock
// transaction and returns its hash.
func (g *HTTPGuardian) SubmitTransfer(ctx context.Context, req types.TransferRequest) (string, error) {
	body, err := json.Marshal(submitRequest{
		SourceChain: string(req.SourceChain),
		TargetChain: string(req.TargetChain),
		Token:       req.Token,
		Amount:      req.Amount,
	})
	if err != nil {
		return "", fmt.Errorf("marshal transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submit transfer: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transfer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("guardian returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var submitResp submitResponse
	err = json.Unmarshal(respBody, &submitResp)
	if err != nil {
		return "", fmt.Errorf("decode transfer response: %w", err)
	}

	if submitResp.SourceTxHash == "" {
		return "", fmt.Errorf("guardian accepted transfer without a source tx hash")
	}

	return submitResp.SourceTxHash, nil
}

// Attestation looks up the guardian attestation for a source transaction.
// A 404 means the guardians have not observed the transfer yet, which is a
// normal pending state, not an error.
func (g *HTTPGuardian) Attestation(ctx context.Context, sourceTxHash string) (*Attestation, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/attestations/"+sourceTxHash, nil)
	if err != nil {
		return nil, fmt.Errorf("create attestation request: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch attestation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Attestation{Status: AttestationPending}, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read attestation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guardian returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var att Attestation
	err = json.Unmarshal(respBody, &att)
	if err != nil {
		return nil, fmt.Errorf("decode attestation: %w", err)
	}

	return &att, nil
}
