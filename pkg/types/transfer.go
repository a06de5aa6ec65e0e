package types

import "time"

// TransferStatus is the lifecycle state of a bridge transfer.
type TransferStatus string

const (
	// TransferPending: accepted for submission, source tx not yet broadcast.
	TransferPending TransferStatus = "pending"
	// TransferInProgress: source tx broadcast, awaiting guardian attestation.
	TransferInProgress TransferStatus = "in_progress"
	// TransferCompleted: source tx confirmed and attestation produced a
	// target-chain transaction hash. Terminal.
	TransferCompleted TransferStatus = "completed"
	// TransferFailed: source tx reverted or attestation timed out. Terminal.
	TransferFailed TransferStatus = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferCompleted || s == TransferFailed
}

// BridgeTransfer tracks one cross-chain transfer through its lifecycle.
// Created by the bridge state machine; transitions are driven only by it.
type BridgeTransfer struct {
	ID                    string          `json:"id"`
	Request               TransferRequest `json:"request"`
	Status                TransferStatus  `json:"status"`
	SourceTxHash          string          `json:"source_tx_hash,omitempty"`
	TargetTxHash          string          `json:"target_tx_hash,omitempty"`
	GuardianProof         []byte          `json:"-"` // opaque attestation payload
	CreatedAt             time.Time       `json:"created_at"`
	EstimatedCompletionAt time.Time       `json:"estimated_completion_at"`
	FailureReason         string          `json:"failure_reason,omitempty"`
}
