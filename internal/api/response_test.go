package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosoft/ragline/internal/domain"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, "extracted text", "document.pdf")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "extracted text", env.Content)
	assert.Equal(t, "document.pdf", env.Title)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "content is empty")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "content is empty", env.Error)
	assert.Empty(t, env.Content)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", domain.ErrEmptyQuery, http.StatusBadRequest},
		{"not found", domain.ErrAgentNotFound, http.StatusNotFound},
		{"no completed items", domain.ErrNoCompletedItems, http.StatusNotFound},
		{"invalid state", domain.ErrAgentMisconfigured, http.StatusConflict},
		{"dimension mismatch", domain.ErrDimensionMismatch, http.StatusConflict},
		{"provider", domain.ErrEmbeddingProvider, http.StatusBadGateway},
		{"wrapped domain error", fmt.Errorf("failed to store embedding: %w", domain.ErrKnowledgeBaseNotFound), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError_UsesDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("wrapped: %w", domain.ErrNoCompletedItems))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "No completed knowledge items found for this knowledge base.", env.Error)
}
