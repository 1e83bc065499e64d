package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/telemetry"
	"github.com/stratosoft/ragline/internal/textutil"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IngestItemRepository defines the repository interface for reading source items
type IngestItemRepository interface {
	ListCompleted(ctx context.Context, userID, knowledgeBaseID string) ([]*domain.KnowledgeItem, error)
}

// IngestKnowledgeBaseRepository defines the repository interface for storing embeddings
type IngestKnowledgeBaseRepository interface {
	UpdateEmbedding(ctx context.Context, id, userID string, embedding []float32, metadata string) error
}

// IngestResult is the outcome of a successful knowledge base ingestion.
type IngestResult struct {
	Content string
	Title   string
}

// IngestService condenses the completed items of a knowledge base into a
// single embedding and stores it on the knowledge base row.
type IngestService struct {
	items  IngestItemRepository
	bases  IngestKnowledgeBaseRepository
	client EmbeddingClient
}

// NewIngestService creates a new IngestService instance
func NewIngestService(items IngestItemRepository, bases IngestKnowledgeBaseRepository, client EmbeddingClient) *IngestService {
	return &IngestService{items: items, bases: bases, client: client}
}

// Ingest reads the completed items for (userID, knowledgeBaseID), concatenates
// their content in creation order, generates one embedding over the combined
// text, and writes embedding plus source text to the knowledge base in a
// single statement. When no completed items exist nothing is written.
//
// There is no compensation when the write fails after a successful provider
// call; the embedding is simply regenerated on the next attempt.
func (s *IngestService) Ingest(ctx context.Context, userID, knowledgeBaseID string) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		UserID:          userID,
		KnowledgeBaseID: knowledgeBaseID,
		Operation:       "ingest",
	})
	defer span.End()

	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	if knowledgeBaseID == "" {
		return nil, domain.ErrMissingKnowledgeBase
	}

	items, err := s.items.ListCompleted(ctx, userID, knowledgeBaseID)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to list knowledge items: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoCompletedItems
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.Content)
	}
	combined := textutil.Normalize(strings.Join(parts, " "))

	embedding, err := s.client.GenerateEmbedding(ctx, combined)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "failed to generate embedding", err)
	}

	if err := s.bases.UpdateEmbedding(ctx, knowledgeBaseID, userID, embedding, combined); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to store embedding: %w", err)
	}

	return &IngestResult{
		Content: combined,
		Title:   fmt.Sprintf("Embedding generated for knowledge base %s", knowledgeBaseID),
	}, nil
}
