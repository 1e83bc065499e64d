package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/pagination"
)

type KnowledgeBaseRepository struct {
	db dbtx
}

func NewKnowledgeBaseRepository(pool *pgxpool.Pool) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{db: pool}
}

func NewKnowledgeBaseRepositoryWithTx(tx pgx.Tx) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{db: tx}
}

func (r *KnowledgeBaseRepository) Create(ctx context.Context, kb *domain.KnowledgeBase) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_bases (id, user_id, name, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		kb.ID, kb.UserID, kb.Name, kb.Metadata, kb.CreatedAt, kb.UpdatedAt,
	)
	return err
}

func (r *KnowledgeBaseRepository) GetByID(ctx context.Context, id, userID string) (*domain.KnowledgeBase, error) {
	var kb domain.KnowledgeBase
	var embedding *pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, embedding, COALESCE(metadata, ''), created_at, updated_at
		 FROM knowledge_bases WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&kb.ID, &kb.UserID, &kb.Name, &embedding, &kb.Metadata, &kb.CreatedAt, &kb.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeBaseNotFound
		}
		return nil, err
	}
	if embedding != nil {
		kb.Embedding = embedding.Slice()
	}
	return &kb, nil
}

// UpdateEmbedding replaces the stored embedding and metadata in one
// statement, scoped to (id, user_id). The vector is always written together
// with the concatenated source text it was computed from.
func (r *KnowledgeBaseRepository) UpdateEmbedding(ctx context.Context, id, userID string, embedding []float32, metadata string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_bases SET embedding = $1, metadata = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5`,
		pgvector.NewVector(embedding), metadata, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeBaseNotFound
	}
	return nil
}

// EmbeddingDimensions returns the dimensionality of the stored vector, or 0
// when no embedding has been stored yet. The query path uses it to fail fast
// when the stored vector was produced by a different model.
func (r *KnowledgeBaseRepository) EmbeddingDimensions(ctx context.Context, id string) (int, error) {
	var dims *int
	err := r.db.QueryRow(ctx,
		`SELECT vector_dims(embedding) FROM knowledge_bases WHERE id = $1`,
		id,
	).Scan(&dims)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrKnowledgeBaseNotFound
		}
		return 0, err
	}
	if dims == nil {
		return 0, nil
	}
	return *dims, nil
}

// ListByUser returns a page of the user's knowledge bases in creation order.
// The embedding column is not loaded; listings only need the row metadata.
func (r *KnowledgeBaseRepository) ListByUser(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) (*pagination.PageResult[*domain.KnowledgeBase], error) {
	query := `SELECT id, user_id, name, COALESCE(metadata, ''), created_at, updated_at
		 FROM knowledge_bases WHERE user_id = $1`
	args := []any{userID}

	if cursor != nil {
		query += ` AND (created_at, id) > ($2, $3)`
		args = append(args, cursor.Timestamp, cursor.LastID)
	}
	query += ` ORDER BY created_at ASC, id ASC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bases := make([]*domain.KnowledgeBase, 0)
	for rows.Next() {
		var kb domain.KnowledgeBase
		if err := rows.Scan(&kb.ID, &kb.UserID, &kb.Name, &kb.Metadata, &kb.CreatedAt, &kb.UpdatedAt); err != nil {
			return nil, err
		}
		bases = append(bases, &kb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	next := pagination.CreateNextCursor(bases, limit,
		func(kb *domain.KnowledgeBase) string { return kb.ID },
		func(kb *domain.KnowledgeBase) time.Time { return kb.CreatedAt },
	)

	return &pagination.PageResult[*domain.KnowledgeBase]{
		Items:   bases,
		Cursor:  next,
		HasMore: next != "",
	}, nil
}

// SearchMatches runs a cosine similarity search over knowledge base vectors
// scoped to one knowledge base. Results are ordered by descending similarity
// with id as the deterministic secondary key, capped at limit, and filtered
// to similarity >= threshold. Zero matches is a valid outcome, not an error.
func (r *KnowledgeBaseRepository) SearchMatches(ctx context.Context, embedding []float32, knowledgeBaseID string, threshold float32, limit int) ([]domain.RetrievedMatch, error) {
	if limit <= 0 {
		return []domain.RetrievedMatch{}, nil
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(metadata, ''), 1 - (embedding <=> $1) AS similarity
		 FROM knowledge_bases
		 WHERE id = $2 AND embedding IS NOT NULL
		   AND 1 - (embedding <=> $1) >= $3
		 ORDER BY similarity DESC, id ASC
		 LIMIT $4`,
		vec, knowledgeBaseID, threshold, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]domain.RetrievedMatch, 0)
	for rows.Next() {
		var m domain.RetrievedMatch
		if err := rows.Scan(&m.Content, &m.Similarity); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
