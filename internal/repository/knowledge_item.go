package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratosoft/ragline/internal/domain"
)

type KnowledgeItemRepository struct {
	db dbtx
}

func NewKnowledgeItemRepository(pool *pgxpool.Pool) *KnowledgeItemRepository {
	return &KnowledgeItemRepository{db: pool}
}

func NewKnowledgeItemRepositoryWithTx(tx pgx.Tx) *KnowledgeItemRepository {
	return &KnowledgeItemRepository{db: tx}
}

func (r *KnowledgeItemRepository) Create(ctx context.Context, item *domain.KnowledgeItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_items (id, user_id, knowledge_base_id, content, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.UserID, item.KnowledgeBaseID, item.Content, item.Status, item.CreatedAt,
	)
	return err
}

// ListCompleted returns the completed items for a knowledge base in creation
// order. Only completed items feed the ingestion pipeline; pending and failed
// items belong to the external ingestion process.
func (r *KnowledgeItemRepository) ListCompleted(ctx context.Context, userID, knowledgeBaseID string) ([]*domain.KnowledgeItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, knowledge_base_id, content, status, created_at
		 FROM knowledge_items
		 WHERE user_id = $1 AND knowledge_base_id = $2 AND status = $3
		 ORDER BY created_at ASC, id ASC`,
		userID, knowledgeBaseID, domain.KnowledgeItemStatusCompleted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.KnowledgeItem
	for rows.Next() {
		var item domain.KnowledgeItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.KnowledgeBaseID, &item.Content, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
