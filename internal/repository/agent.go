package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratosoft/ragline/internal/domain"
)

type AgentRepository struct {
	db dbtx
}

func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{db: pool}
}

func NewAgentRepositoryWithTx(tx pgx.Tx) *AgentRepository {
	return &AgentRepository{db: tx}
}

func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO agents (id, user_id, knowledge_base_id, prompt_content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		agent.ID, nullableString(agent.UserID), nullableString(agent.KnowledgeBaseID), agent.PromptContent, agent.CreatedAt,
	)
	return err
}

// GetByID resolves an agent by id. The primary key guarantees at most one
// row; zero rows maps to domain.ErrAgentNotFound.
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	var agent domain.Agent
	var userID, knowledgeBaseID, promptContent pgtype.Text
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, knowledge_base_id, prompt_content, created_at
		 FROM agents WHERE id = $1`,
		id,
	).Scan(&agent.ID, &userID, &knowledgeBaseID, &promptContent, &agent.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, err
	}
	if userID.Valid {
		agent.UserID = userID.String
	}
	if knowledgeBaseID.Valid {
		agent.KnowledgeBaseID = knowledgeBaseID.String
	}
	if promptContent.Valid {
		agent.PromptContent = promptContent.String
	}
	return &agent, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
