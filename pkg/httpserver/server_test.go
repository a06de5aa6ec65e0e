package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/quantfence/chainarb/internal/monitor"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/cache"
	"github.com/quantfence/chainarb/pkg/healthprobe"
	"github.com/quantfence/chainarb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeExecutor struct {
	mu     sync.Mutex
	result *types.ExecutionResult
	err    error
	calls  int
}

func (f *fakeExecutor) Execute(ctx context.Context, token string, amount float64) (*types.ExecutionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func snapshotCacheWith(t *testing.T, opps []*opportunity.Opportunity) cache.Cache {
	t.Helper()
	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100,
		MaxCost:     10,
		BufferItems: 64,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	if opps != nil {
		require.True(t, c.Set(monitor.SnapshotKey, opps, time.Minute))
		c.(*cache.RistrettoCache).Wait()
	}
	return c
}

func snapshotOpp(token string, profitPercent float64) *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:            "opp-" + token,
		Token:         token,
		ProfitPercent: profitPercent,
		BuyChain:      types.ChainEthereum,
		SellChain:     types.ChainPolygon,
		Profitable:    profitPercent > 0,
		ObservedAt:    time.Now(),
	}
}

func TestHandleOpportunities_ServesSnapshot(t *testing.T) {
	snapshots := snapshotCacheWith(t, []*opportunity.Opportunity{
		snapshotOpp("WETH", 3.0),
		snapshotOpp("WBTC", 0.2),
	})
	handler := NewAPIHandler(snapshots, &fakeExecutor{}, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities", nil)
	rec := httptest.NewRecorder()
	handler.HandleOpportunities(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp opportunitiesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestHandleOpportunities_MinProfitFilter(t *testing.T) {
	snapshots := snapshotCacheWith(t, []*opportunity.Opportunity{
		snapshotOpp("WETH", 3.0),
		snapshotOpp("WBTC", 0.2),
	})
	handler := NewAPIHandler(snapshots, &fakeExecutor{}, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?minProfit=1.0", nil)
	rec := httptest.NewRecorder()
	handler.HandleOpportunities(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp opportunitiesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "WETH", resp.Opportunities[0].Token)
}

func TestHandleOpportunities_EmptyBeforeFirstSweep(t *testing.T) {
	snapshots := snapshotCacheWith(t, nil)
	handler := NewAPIHandler(snapshots, &fakeExecutor{}, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities", nil)
	rec := httptest.NewRecorder()
	handler.HandleOpportunities(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp opportunitiesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Opportunities)
}

func TestHandleOpportunities_BadMinProfit(t *testing.T) {
	handler := NewAPIHandler(snapshotCacheWith(t, nil), &fakeExecutor{}, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?minProfit=abc", nil)
	rec := httptest.NewRecorder()
	handler.HandleOpportunities(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func executeBody(t *testing.T, token string, amount float64) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(executeRequest{Token: token, Amount: amount})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestHandleExecute_Success(t *testing.T) {
	executor := &fakeExecutor{
		result: &types.ExecutionResult{
			ID:      "exec-1",
			Token:   "WETH",
			Success: true,
			Profit:  26.0,
		},
	}
	handler := NewAPIHandler(snapshotCacheWith(t, nil), executor, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/execute", executeBody(t, "WETH", 1000))
	rec := httptest.NewRecorder()
	handler.HandleExecute(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp executeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Result.Success)
	assert.Empty(t, resp.Error)
}

func TestHandleExecute_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"already-executing", types.ErrAlreadyExecuting, http.StatusConflict},
		{"unknown-token", types.ErrUnknownToken, http.StatusBadRequest},
		{"not-profitable", types.ErrNotProfitable, http.StatusUnprocessableEntity},
		{"bridge-stalled", types.ErrBridgeStalled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := &fakeExecutor{
				result: &types.ExecutionResult{ID: "exec-1", Token: "WETH"},
				err:    tt.err,
			}
			handler := NewAPIHandler(snapshotCacheWith(t, nil), executor, zaptest.NewLogger(t))

			req := httptest.NewRequest(http.MethodPost, "/api/execute", executeBody(t, "WETH", 1000))
			rec := httptest.NewRecorder()
			handler.HandleExecute(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			var resp executeResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleExecute_Validation(t *testing.T) {
	executor := &fakeExecutor{}
	handler := NewAPIHandler(snapshotCacheWith(t, nil), executor, zaptest.NewLogger(t))

	tests := []struct {
		name   string
		token  string
		amount float64
	}{
		{"missing-token", "", 1000},
		{"zero-amount", "WETH", 0},
		{"negative-amount", "WETH", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/execute", executeBody(t, tt.token, tt.amount))
			rec := httptest.NewRecorder()
			handler.HandleExecute(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.Equal(t, 0, executor.calls)
}

func TestServer_Routes(t *testing.T) {
	hc := healthprobe.New()
	hc.SetReady(true)

	srv := New(&Config{
		Port:          "0",
		Logger:        zaptest.NewLogger(t),
		HealthChecker: hc,
		Snapshots:     snapshotCacheWith(t, nil),
		Executor:      &fakeExecutor{},
	})

	ts := httptest.NewServer(srv.server.Handler)
	defer ts.Close()

	for _, path := range []string{"/health", "/ready", "/metrics", "/api/opportunities"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
