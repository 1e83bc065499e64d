//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/testutil"
)

func newTestJob(createdAt time.Time) *domain.IngestJob {
	return &domain.IngestJob{
		ID:              uuid.NewString(),
		UserID:          uuid.NewString(),
		KnowledgeBaseID: uuid.NewString(),
		Status:          domain.IngestJobStatusPending,
		CreatedAt:       createdAt.Truncate(time.Microsecond),
	}
}

func TestIngestJobRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	job := newTestJob(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	retrieved, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.UserID, retrieved.UserID)
	assert.Equal(t, job.KnowledgeBaseID, retrieved.KnowledgeBaseID)
	assert.Equal(t, domain.IngestJobStatusPending, retrieved.Status)
	assert.Equal(t, int32(0), retrieved.Retries)
	assert.Nil(t, retrieved.ProcessedAt)
}

func TestIngestJobRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngestJobNotFound)
}

func TestIngestJobRepository_GetPendingJobs(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	now := time.Now().UTC()
	older := newTestJob(now)
	newer := newTestJob(now.Add(time.Second))
	done := newTestJob(now)
	done.Status = domain.IngestJobStatusCompleted

	for _, job := range []*domain.IngestJob{newer, done, older} {
		require.NoError(t, repo.Create(ctx, job))
	}

	jobs, err := repo.GetPendingJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, older.ID, jobs[0].ID)
	assert.Equal(t, newer.ID, jobs[1].ID)
}

func TestIngestJobRepository_UpdateJobStatus(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	job := newTestJob(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.UpdateJobStatus(ctx, job.ID, domain.IngestJobStatusCompleted, ""))

	retrieved, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestJobStatusCompleted, retrieved.Status)
	assert.NotNil(t, retrieved.ProcessedAt)
}

func TestIngestJobRepository_UpdateJobStatus_Failed(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	job := newTestJob(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.UpdateJobStatus(ctx, job.ID, domain.IngestJobStatusFailed, "embedding provider unavailable"))

	retrieved, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestJobStatusFailed, retrieved.Status)
	assert.Equal(t, "embedding provider unavailable", retrieved.Error)
	assert.NotNil(t, retrieved.ProcessedAt)
}

func TestIngestJobRepository_UpdateJobStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	err := repo.UpdateJobStatus(ctx, uuid.NewString(), domain.IngestJobStatusCompleted, "")
	assert.ErrorIs(t, err, domain.ErrIngestJobNotFound)
}

func TestIngestJobRepository_IncrementRetries(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	job := newTestJob(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.IncrementRetries(ctx, job.ID))
	require.NoError(t, repo.IncrementRetries(ctx, job.ID))

	retrieved, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), retrieved.Retries)
}

func TestIngestJobRepository_IncrementRetries_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewIngestJobRepository(pool)

	err := repo.IncrementRetries(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngestJobNotFound)
}
