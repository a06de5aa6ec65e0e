package bridge

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// feedMessage is one attestation event pushed by the guardian network.
type feedMessage struct {
	SourceTxHash string `json:"source_tx_hash"`
	Status       string `json:"status"`
	TargetTxHash string `json:"target_tx_hash,omitempty"`
	Proof        []byte `json:"proof,omitempty"`
}

// AttestationFeed subscribes to guardian attestation events over a
// websocket so waiters learn about completion without hammering the REST
// endpoint. Polling remains the fallback; the feed is best-effort.
type AttestationFeed struct {
	url            string
	dialTimeout    time.Duration
	reconnectDelay time.Duration
	logger         *zap.Logger

	mu   sync.Mutex
	subs map[string]chan Attestation
}

// NewAttestationFeed creates a feed for the given websocket endpoint.
func NewAttestationFeed(url string, logger *zap.Logger) *AttestationFeed {
	return &AttestationFeed{
		url:            url,
		dialTimeout:    10 * time.Second,
		reconnectDelay: 5 * time.Second,
		logger:         logger,
		subs:           make(map[string]chan Attestation),
	}
}

// Run connects and dispatches events until the context is cancelled,
// reconnecting on read errors.
func (f *AttestationFeed) Run(ctx context.Context) error {
	for {
		err := f.readOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			f.logger.Warn("attestation-feed-disconnected", zap.Error(err))
			FeedReconnectsTotal.Inc()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.reconnectDelay):
		}
	}
}

func (f *AttestationFeed) readOnce(ctx context.Context) error {
	dialer := &websocket.Dialer{HandshakeTimeout: f.dialTimeout}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.logger.Info("attestation-feed-connected", zap.String("url", f.url))

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg feedMessage
		err = json.Unmarshal(data, &msg)
		if err != nil {
			f.logger.Warn("attestation-feed-bad-message", zap.Error(err))
			continue
		}

		f.dispatch(msg)
	}
}

func (f *AttestationFeed) dispatch(msg feedMessage) {
	f.mu.Lock()
	ch, ok := f.subs[msg.SourceTxHash]
	f.mu.Unlock()

	if !ok {
		return
	}

	att := Attestation{
		Status:       msg.Status,
		TargetTxHash: msg.TargetTxHash,
		Proof:        msg.Proof,
	}

	select {
	case ch <- att:
		FeedEventsTotal.Inc()
	default:
		// Waiter is behind; it will pick the state up on its next poll.
	}
}

// Subscribe returns a channel delivering attestation events for one source
// transaction. Callers must Unsubscribe when done.
func (f *AttestationFeed) Subscribe(sourceTxHash string) <-chan Attestation {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Attestation, 1)
	f.subs[sourceTxHash] = ch
	return ch
}

// Unsubscribe removes the subscription for a source transaction.
func (f *AttestationFeed) Unsubscribe(sourceTxHash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, sourceTxHash)
}
