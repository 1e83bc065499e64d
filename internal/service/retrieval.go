package service

import (
	"context"
	"fmt"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/telemetry"
)

const (
	// DefaultMatchThreshold is the minimum cosine similarity for a match.
	DefaultMatchThreshold = 0.7
	// DefaultMatchCount caps the number of matches returned per query.
	DefaultMatchCount = 6
)

// RetrievalKnowledgeBaseRepository defines the repository interface for similarity search
type RetrievalKnowledgeBaseRepository interface {
	EmbeddingDimensions(ctx context.Context, id string) (int, error)
	SearchMatches(ctx context.Context, embedding []float32, knowledgeBaseID string, threshold float32, limit int) ([]domain.RetrievedMatch, error)
}

// RetrievalService embeds a query and runs cosine similarity search against
// the stored knowledge base embedding.
type RetrievalService struct {
	bases     RetrievalKnowledgeBaseRepository
	client    EmbeddingClient
	threshold float32
	limit     int
}

// NewRetrievalService creates a RetrievalService with the default threshold and limit
func NewRetrievalService(bases RetrievalKnowledgeBaseRepository, client EmbeddingClient) *RetrievalService {
	return NewRetrievalServiceWithLimits(bases, client, DefaultMatchThreshold, DefaultMatchCount)
}

// NewRetrievalServiceWithLimits creates a RetrievalService with explicit limits
func NewRetrievalServiceWithLimits(bases RetrievalKnowledgeBaseRepository, client EmbeddingClient, threshold float32, limit int) *RetrievalService {
	return &RetrievalService{
		bases:     bases,
		client:    client,
		threshold: threshold,
		limit:     limit,
	}
}

// Retrieve embeds the query and returns matches above the similarity
// threshold, best first. The stored vector's dimensionality is checked
// against the query embedding before searching so that a knowledge base
// ingested with a different model fails fast instead of scoring garbage.
// Zero matches is a valid outcome, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query, knowledgeBaseID string) ([]domain.RetrievedMatch, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		KnowledgeBaseID: knowledgeBaseID,
		Operation:       "retrieve",
	})
	defer span.End()

	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if knowledgeBaseID == "" {
		return nil, domain.ErrMissingKnowledgeBase
	}

	embedding, err := s.client.GenerateEmbedding(ctx, query)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "failed to embed query", err)
	}

	dims, err := s.bases.EmbeddingDimensions(ctx, knowledgeBaseID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if dims != 0 && dims != len(embedding) {
		return nil, domain.ErrDimensionMismatch
	}

	matches, err := s.bases.SearchMatches(ctx, embedding, knowledgeBaseID, s.threshold, s.limit)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to search matches: %w", err)
	}
	return matches, nil
}
