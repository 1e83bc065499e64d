package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stratosoft/ragline/internal/api"
	"github.com/stratosoft/ragline/internal/service"
)

// Answerer defines the query pipeline service
type Answerer interface {
	Answer(ctx context.Context, query, agentID string) (*service.QueryResult, error)
}

// QueryHandler serves POST /query
type QueryHandler struct {
	svc Answerer
}

// NewQueryHandler creates a new QueryHandler instance
func NewQueryHandler(svc Answerer) *QueryHandler {
	return &QueryHandler{svc: svc}
}

// QueryRequest is the body for POST /query
type QueryRequest struct {
	Query   string `json:"query"`
	AgentID string `json:"agent_id"`
}

// Answer runs the retrieval pipeline and returns the synthesized answer
func (h *QueryHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.AgentID == "" {
		api.Error(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	result, err := h.svc.Answer(r.Context(), req.Query, req.AgentID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, result.Answer, "AI Response")
}
