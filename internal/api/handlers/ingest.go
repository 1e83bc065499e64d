package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/stratosoft/ragline/internal/api"
	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/service"
)

// Ingester defines the synchronous ingestion service
type Ingester interface {
	Ingest(ctx context.Context, userID, knowledgeBaseID string) (*service.IngestResult, error)
}

// JobQueue defines the repository interface for enqueueing ingest jobs
type JobQueue interface {
	Create(ctx context.Context, job *domain.IngestJob) error
}

// IngestHandler serves the /knowledge_embedding endpoints
type IngestHandler struct {
	ingester Ingester
	jobs     JobQueue
}

// NewIngestHandler creates a new IngestHandler instance
func NewIngestHandler(ingester Ingester, jobs JobQueue) *IngestHandler {
	return &IngestHandler{ingester: ingester, jobs: jobs}
}

// IngestRequest is the body for both ingest endpoints
type IngestRequest struct {
	UserID          string `json:"user_id"`
	KnowledgeBaseID string `json:"knowledge_base_id"`
}

// Embed runs a synchronous ingestion for one knowledge base
func (h *IngestHandler) Embed(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeIngestRequest(w, r)
	if !ok {
		return
	}

	result, err := h.ingester.Ingest(r.Context(), req.UserID, req.KnowledgeBaseID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, result.Content, result.Title)
}

// EmbedAsync enqueues an ingest job for the background worker
func (h *IngestHandler) EmbedAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeIngestRequest(w, r)
	if !ok {
		return
	}

	job := &domain.IngestJob{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		KnowledgeBaseID: req.KnowledgeBaseID,
		Status:          domain.IngestJobStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.jobs.Create(r.Context(), job); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusAccepted, api.Envelope{
		Content: job.ID,
		Title:   fmt.Sprintf("Ingest job queued for knowledge base %s", req.KnowledgeBaseID),
		Success: true,
	})
}

func decodeIngestRequest(w http.ResponseWriter, r *http.Request) (IngestRequest, bool) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.UserID == "" {
		api.Error(w, http.StatusBadRequest, "user_id is required")
		return req, false
	}
	if req.KnowledgeBaseID == "" {
		api.Error(w, http.StatusBadRequest, "knowledge_base_id is required")
		return req, false
	}
	return req, true
}
