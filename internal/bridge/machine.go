// Package bridge drives cross-chain transfers through their lifecycle:
// Pending -> InProgress -> {Completed, Failed}.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Quoter estimates transfer costs; the machine uses it for the expected
// completion time a transfer's timeout is derived from.
type Quoter interface {
	GetQuote(ctx context.Context, req types.TransferRequest) (*types.Quote, error)
}

// Machine is the bridge transfer state machine.
//
// InitiateTransfer returns as soon as the transfer is accepted, never
// blocking for completion. Callers that need the transfer to finish must
// poll until a terminal state, or use AwaitCompletion which does the
// bounded-backoff polling for them.
type Machine struct {
	guardian    GuardianClient
	quotes      Quoter
	feed        *AttestationFeed // optional push feed; nil disables
	timeoutMult int
	pollInitial time.Duration
	pollMax     time.Duration
	logger      *zap.Logger
}

// Config holds state machine configuration.
type Config struct {
	Guardian    GuardianClient
	Quotes      Quoter
	Feed        *AttestationFeed
	TimeoutMult int
	PollInitial time.Duration
	PollMax     time.Duration
	Logger      *zap.Logger
}

// New creates a bridge transfer state machine.
func New(cfg *Config) *Machine {
	timeoutMult := cfg.TimeoutMult
	if timeoutMult < 1 {
		timeoutMult = 10
	}

	pollInitial := cfg.PollInitial
	if pollInitial <= 0 {
		pollInitial = 2 * time.Second
	}

	pollMax := cfg.PollMax
	if pollMax < pollInitial {
		pollMax = pollInitial
	}

	return &Machine{
		guardian:    cfg.Guardian,
		quotes:      cfg.Quotes,
		feed:        cfg.Feed,
		timeoutMult: timeoutMult,
		pollInitial: pollInitial,
		pollMax:     pollMax,
		logger:      cfg.Logger,
	}
}

// InitiateTransfer submits a transfer for broadcast and returns it in
// InProgress with the source transaction hash set. It does not wait for
// attestation or completion.
func (m *Machine) InitiateTransfer(ctx context.Context, req types.TransferRequest) (*types.BridgeTransfer, error) {
	quote, err := m.quotes.GetQuote(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("initiate transfer: %w", err)
	}

	now := time.Now()
	transfer := &types.BridgeTransfer{
		ID:                    uuid.New().String(),
		Request:               req,
		Status:                types.TransferPending,
		CreatedAt:             now,
		EstimatedCompletionAt: now.Add(time.Duration(quote.EstimatedTransferSeconds) * time.Second),
	}

	sourceTxHash, err := m.guardian.SubmitTransfer(ctx, req)
	if err != nil {
		TransfersTotal.WithLabelValues("submit_error").Inc()
		return nil, fmt.Errorf("initiate transfer: submit: %w", err)
	}

	transfer.Status = types.TransferInProgress
	transfer.SourceTxHash = sourceTxHash

	TransfersTotal.WithLabelValues("initiated").Inc()
	m.logger.Info("bridge-transfer-initiated",
		zap.String("transfer-id", transfer.ID),
		zap.String("token", req.Token),
		zap.String("source", string(req.SourceChain)),
		zap.String("target", string(req.TargetChain)),
		zap.Float64("amount", req.Amount),
		zap.String("source-tx", sourceTxHash))

	return transfer, nil
}

// PollStatus queries the guardian network and returns the transfer with
// its state updated. Idempotent and safe to call repeatedly; a transfer in
// a terminal state is returned unchanged.
func (m *Machine) PollStatus(ctx context.Context, transfer *types.BridgeTransfer) (*types.BridgeTransfer, error) {
	updated := *transfer
	if updated.Status.IsTerminal() {
		return &updated, nil
	}

	att, err := m.guardian.Attestation(ctx, transfer.SourceTxHash)
	if err != nil {
		return nil, fmt.Errorf("poll transfer %s: %w", transfer.ID, err)
	}

	m.apply(&updated, att)
	return &updated, nil
}

// apply folds an attestation into a non-terminal transfer.
func (m *Machine) apply(transfer *types.BridgeTransfer, att *Attestation) {
	switch att.Status {
	case AttestationAttested:
		transfer.Status = types.TransferCompleted
		transfer.TargetTxHash = att.TargetTxHash
		transfer.GuardianProof = att.Proof
		TransfersTotal.WithLabelValues("completed").Inc()
		CompletionSeconds.Observe(time.Since(transfer.CreatedAt).Seconds())
	case AttestationFailed:
		transfer.Status = types.TransferFailed
		transfer.FailureReason = "source transaction reverted"
		TransfersTotal.WithLabelValues("failed").Inc()
	default:
		if time.Since(transfer.CreatedAt) > m.deadline(transfer) {
			transfer.Status = types.TransferFailed
			transfer.FailureReason = "attestation timeout"
			TransfersTotal.WithLabelValues("timeout").Inc()
		}
	}
}

// deadline is the bounded completion window: timeoutMult times the quoted
// transfer estimate.
func (m *Machine) deadline(transfer *types.BridgeTransfer) time.Duration {
	estimate := transfer.EstimatedCompletionAt.Sub(transfer.CreatedAt)
	return estimate * time.Duration(m.timeoutMult)
}

// AwaitCompletion polls the transfer with bounded exponential backoff until
// it reaches a terminal state, the deadline passes, or the context is
// cancelled. When the transfer fails or times out the returned error wraps
// ErrBridgeStalled; the returned transfer always reflects the last known
// state.
//
// Cancellation stops this process from acting; it does not reverse the
// already-broadcast source transaction.
func (m *Machine) AwaitCompletion(ctx context.Context, transfer *types.BridgeTransfer) (*types.BridgeTransfer, error) {
	current := transfer

	var events <-chan Attestation
	if m.feed != nil && transfer.SourceTxHash != "" {
		events = m.feed.Subscribe(transfer.SourceTxHash)
		defer m.feed.Unsubscribe(transfer.SourceTxHash)
	}

	delay := m.pollInitial
	for {
		if current.Status.IsTerminal() {
			break
		}

		select {
		case <-ctx.Done():
			return current, fmt.Errorf("await transfer %s: %w: %w", current.ID, types.ErrBridgeStalled, ctx.Err())
		case att := <-eventsOrNever(events):
			next := *current
			m.apply(&next, &att)
			current = &next
		case <-time.After(delay):
			next, err := m.PollStatus(ctx, current)
			if err != nil {
				// Transient guardian failures do not fail the wait; the
				// deadline bounds it.
				m.logger.Warn("bridge-poll-failed",
					zap.String("transfer-id", current.ID),
					zap.Error(err))
			} else {
				current = next
			}

			delay *= 2
			if delay > m.pollMax {
				delay = m.pollMax
			}
		}

		if !current.Status.IsTerminal() && time.Since(current.CreatedAt) > m.deadline(current) {
			next := *current
			next.Status = types.TransferFailed
			next.FailureReason = "attestation timeout"
			TransfersTotal.WithLabelValues("timeout").Inc()
			current = &next
		}
	}

	if current.Status == types.TransferFailed {
		return current, fmt.Errorf("transfer %s: %w: %s", current.ID, types.ErrBridgeStalled, current.FailureReason)
	}

	m.logger.Info("bridge-transfer-completed",
		zap.String("transfer-id", current.ID),
		zap.String("target-tx", current.TargetTxHash))

	return current, nil
}

// eventsOrNever returns the channel or one that never delivers, so the
// select above works with and without a push feed.
func eventsOrNever(events <-chan Attestation) <-chan Attestation {
	if events != nil {
		return events
	}
	return make(chan Attestation)
}
