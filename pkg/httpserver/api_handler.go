package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/quantfence/chainarb/internal/monitor"
	"github.com/quantfence/chainarb/internal/opportunity"
	"github.com/quantfence/chainarb/pkg/cache"
	"github.com/quantfence/chainarb/pkg/types"
	"go.uber.org/zap"
)

// Executor runs arbitrage executions on demand.
type Executor interface {
	Execute(ctx context.Context, token string, amount float64) (*types.ExecutionResult, error)
}

// APIHandler serves the opportunity snapshot and execution endpoints.
type APIHandler struct {
	snapshots cache.Cache
	executor  Executor
	logger    *zap.Logger
}

// NewAPIHandler creates an API handler.
func NewAPIHandler(snapshots cache.Cache, executor Executor, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		snapshots: snapshots,
		executor:  executor,
		logger:    logger,
	}
}

type opportunitiesResponse struct {
	Opportunities []*opportunity.Opportunity `json:"opportunities"`
	Count         int                        `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleOpportunities serves the latest sweep's opportunities from the
// snapshot cache. The optional minProfit query parameter filters by
// profit percent.
func (h *APIHandler) HandleOpportunities(w http.ResponseWriter, r *http.Request) {
	opps := monitor.Snapshot(h.snapshots)

	if raw := r.URL.Query().Get("minProfit"); raw != "" {
		minProfit, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "minProfit must be a number"})
			return
		}

		filtered := make([]*opportunity.Opportunity, 0, len(opps))
		for _, opp := range opps {
			if opp.ProfitPercent >= minProfit {
				filtered = append(filtered, opp)
			}
		}
		opps = filtered
	}

	if opps == nil {
		opps = []*opportunity.Opportunity{}
	}

	writeJSON(w, http.StatusOK, opportunitiesResponse{
		Opportunities: opps,
		Count:         len(opps),
	})
}

type executeRequest struct {
	Token  string  `json:"token"`
	Amount float64 `json:"amount"`
}

type executeResponse struct {
	Result *types.ExecutionResult `json:"result"`
	Error  string                 `json:"error,omitempty"`
}

// HandleExecute triggers one arbitrage execution and blocks until it
// resolves. The response carries the execution's audit record even on
// failure so callers can see how far it got.
func (h *APIHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount must be positive"})
		return
	}

	result, err := h.executor.Execute(r.Context(), req.Token, req.Amount)
	if err != nil {
		h.logger.Warn("api-execute-failed",
			zap.String("token", req.Token),
			zap.Float64("amount", req.Amount),
			zap.Error(err))

		writeJSON(w, executeStatus(err), executeResponse{
			Result: result,
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{Result: result})
}

// executeStatus maps engine errors onto HTTP status codes.
func executeStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrAlreadyExecuting):
		return http.StatusConflict
	case errors.Is(err, types.ErrUnknownToken):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotProfitable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
