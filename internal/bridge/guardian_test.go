package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/quantfence/chainarb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHTTPGuardian_SubmitTransfer(t *testing.T) {
	var received submitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/transfers", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(submitResponse{SourceTxHash: "0xabc123"})
	}))
	defer server.Close()

	guardian := NewHTTPGuardian(server.URL, 5*time.Second, zaptest.NewLogger(t))

	hash, err := guardian.SubmitTransfer(context.Background(), types.TransferRequest{
		SourceChain: types.ChainEthereum,
		TargetChain: types.ChainPolygon,
		Token:       "WETH",
		Amount:      250,
	})
	require.NoError(t, err)

	assert.Equal(t, "0xabc123", hash)
	assert.Equal(t, "ethereum", received.SourceChain)
	assert.Equal(t, "polygon", received.TargetChain)
	assert.Equal(t, "WETH", received.Token)
	assert.Equal(t, 250.0, received.Amount)
}

func TestHTTPGuardian_SubmitTransferRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient relayer balance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	guardian := NewHTTPGuardian(server.URL, 5*time.Second, zaptest.NewLogger(t))

	_, err := guardian.SubmitTransfer(context.Background(), types.TransferRequest{Token: "WETH", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "insufficient relayer balance")
}

func TestHTTPGuardian_SubmitTransferMissingHash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(submitResponse{})
	}))
	defer server.Close()

	guardian := NewHTTPGuardian(server.URL, 5*time.Second, zaptest.NewLogger(t))

	_, err := guardian.SubmitTransfer(context.Background(), types.TransferRequest{Token: "WETH", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source tx hash")
}

func TestHTTPGuardian_Attestation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/attestations/0xabc123", r.URL.Path)

		_ = json.NewEncoder(w).Encode(Attestation{
			Status:       AttestationAttested,
			TargetTxHash: "0xdef456",
			Proof:        []byte("signed-vaa"),
		})
	}))
	defer server.Close()

	guardian := NewHTTPGuardian(server.URL, 5*time.Second, zaptest.NewLogger(t))

	att, err := guardian.Attestation(context.Background(), "0xabc123")
	require.NoError(t, err)

	assert.Equal(t, AttestationAttested, att.Status)
	assert.Equal(t, "0xdef456", att.TargetTxHash)
	assert.Equal(t, []byte("signed-vaa"), att.Proof)
}

func TestHTTPGuardian_AttestationNotFoundMeansPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	guardian := NewHTTPGuardian(server.URL, 5*time.Second, zaptest.NewLogger(t))

	att, err := guardian.Attestation(context.Background(), "0xunseen")
	require.NoError(t, err)
	assert.Equal(t, AttestationPending, att.Status)
}

func TestHTTPGuardian_AttestationServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "guardian quorum unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	guardian := NewHTTPGuardian(server.URL, 5*time.Second, zaptest.NewLogger(t))

	_, err := guardian.Attestation(context.Background(), "0xabc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
