package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratosoft/ragline/internal/domain"
)

type IngestJobRepository struct {
	db dbtx
}

func NewIngestJobRepository(pool *pgxpool.Pool) *IngestJobRepository {
	return &IngestJobRepository{db: pool}
}

func NewIngestJobRepositoryWithTx(tx pgx.Tx) *IngestJobRepository {
	return &IngestJobRepository{db: tx}
}

func (r *IngestJobRepository) Create(ctx context.Context, job *domain.IngestJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ingest_jobs (id, user_id, knowledge_base_id, status, retries, error, created_at, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.UserID, job.KnowledgeBaseID, job.Status, job.Retries, job.Error, job.CreatedAt, job.ProcessedAt,
	)
	return err
}

func (r *IngestJobRepository) GetByID(ctx context.Context, id string) (*domain.IngestJob, error) {
	var job domain.IngestJob
	var errMsg pgtype.Text
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, knowledge_base_id, status, retries, error, created_at, processed_at
		 FROM ingest_jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.UserID, &job.KnowledgeBaseID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIngestJobNotFound
		}
		return nil, err
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	return &job, nil
}

// GetPendingJobs retrieves pending jobs in creation order for the worker.
func (r *IngestJobRepository) GetPendingJobs(ctx context.Context) ([]*domain.IngestJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, knowledge_base_id, status, retries, error, created_at, processed_at
		 FROM ingest_jobs
		 WHERE status = $1
		 ORDER BY created_at ASC
		 LIMIT 50`,
		domain.IngestJobStatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.IngestJob
	for rows.Next() {
		var job domain.IngestJob
		var errMsg pgtype.Text
		if err := rows.Scan(&job.ID, &job.UserID, &job.KnowledgeBaseID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			job.Error = errMsg.String
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

// UpdateJobStatus updates the status of an ingest job
func (r *IngestJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status domain.IngestJobStatus, errMsg string) error {
	now := time.Now().UTC()
	var processedAt *time.Time
	if status == domain.IngestJobStatusCompleted || status == domain.IngestJobStatusFailed {
		processedAt = &now
	}
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE ingest_jobs SET status = $1, error = $2, processed_at = $3 WHERE id = $4`,
		status, errMsg, processedAt, jobID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrIngestJobNotFound
	}
	return nil
}

// IncrementRetries increments the retry count for a job
func (r *IngestJobRepository) IncrementRetries(ctx context.Context, jobID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE ingest_jobs SET retries = retries + 1 WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrIngestJobNotFound
	}
	return nil
}
