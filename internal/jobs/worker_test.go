package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/service"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockIngestJobRepository is a mock implementation of IngestJobRepository
type MockIngestJobRepository struct {
	mock.Mock
}

func (m *MockIngestJobRepository) GetPendingJobs(ctx context.Context) ([]*domain.IngestJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IngestJob), args.Error(1)
}

func (m *MockIngestJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status domain.IngestJobStatus, errMsg string) error {
	args := m.Called(ctx, jobID, status, errMsg)
	return args.Error(0)
}

func (m *MockIngestJobRepository) IncrementRetries(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

// MockIngester is a mock implementation of Ingester
type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) Ingest(ctx context.Context, userID, knowledgeBaseID string) (*service.IngestResult, error) {
	args := m.Called(ctx, userID, knowledgeBaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(250 * time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)

	cancel()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestIngestWorker_ProcessJobs_NoPendingJobs tests when there are no pending jobs
func TestIngestWorker_ProcessJobs_NoPendingJobs(t *testing.T) {
	mockRepo := new(MockIngestJobRepository)
	mockIngester := new(MockIngester)

	mockRepo.On("GetPendingJobs", mock.Anything).Return([]*domain.IngestJob{}, nil)

	worker := NewIngestWorker(mockRepo, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockIngester.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}

// TestIngestWorker_ProcessJobs_Success tests successful job processing
func TestIngestWorker_ProcessJobs_Success(t *testing.T) {
	mockRepo := new(MockIngestJobRepository)
	mockIngester := new(MockIngester)

	job := &domain.IngestJob{
		ID:              "job-1",
		UserID:          "user-1",
		KnowledgeBaseID: "kb-1",
		Status:          domain.IngestJobStatusPending,
		Retries:         0,
	}

	mockRepo.On("GetPendingJobs", mock.Anything).Return([]*domain.IngestJob{job}, nil)
	mockIngester.On("Ingest", mock.Anything, "user-1", "kb-1").Return(&service.IngestResult{
		Content: "combined content",
		Title:   "Embedding generated for knowledge base kb-1",
	}, nil)
	mockRepo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusCompleted, "").Return(nil)

	worker := NewIngestWorker(mockRepo, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockIngester.AssertExpectations(t)
}

// TestIngestWorker_ProcessJobs_FailureWithRetry tests job failure with retry
func TestIngestWorker_ProcessJobs_FailureWithRetry(t *testing.T) {
	mockRepo := new(MockIngestJobRepository)
	mockIngester := new(MockIngester)

	job := &domain.IngestJob{
		ID:              "job-1",
		UserID:          "user-1",
		KnowledgeBaseID: "kb-1",
		Status:          domain.IngestJobStatusPending,
		Retries:         0,
	}

	mockRepo.On("GetPendingJobs", mock.Anything).Return([]*domain.IngestJob{job}, nil)
	mockIngester.On("Ingest", mock.Anything, "user-1", "kb-1").Return(nil, errors.New("embedding failed"))
	mockRepo.On("IncrementRetries", mock.Anything, "job-1").Return(nil)
	mockRepo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusPending, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)

	worker := NewIngestWorker(mockRepo, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockIngester.AssertExpectations(t)
}

// TestIngestWorker_ProcessJobs_MaxRetriesExceeded tests job failure after max retries
func TestIngestWorker_ProcessJobs_MaxRetriesExceeded(t *testing.T) {
	mockRepo := new(MockIngestJobRepository)
	mockIngester := new(MockIngester)

	job := &domain.IngestJob{
		ID:              "job-1",
		UserID:          "user-1",
		KnowledgeBaseID: "kb-1",
		Status:          domain.IngestJobStatusPending,
		Retries:         2, // Already retried twice
	}

	mockRepo.On("GetPendingJobs", mock.Anything).Return([]*domain.IngestJob{job}, nil)
	mockIngester.On("Ingest", mock.Anything, "user-1", "kb-1").Return(nil, errors.New("embedding failed"))
	mockRepo.On("IncrementRetries", mock.Anything, "job-1").Return(nil)
	mockRepo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusFailed, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil)

	worker := NewIngestWorker(mockRepo, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockIngester.AssertExpectations(t)
}

// TestIngestWorker_ProcessJobs_MultipleJobs tests processing multiple jobs
func TestIngestWorker_ProcessJobs_MultipleJobs(t *testing.T) {
	mockRepo := new(MockIngestJobRepository)
	mockIngester := new(MockIngester)

	jobs := []*domain.IngestJob{
		{ID: "job-1", UserID: "user-1", KnowledgeBaseID: "kb-1", Status: domain.IngestJobStatusPending},
		{ID: "job-2", UserID: "user-2", KnowledgeBaseID: "kb-2", Status: domain.IngestJobStatusPending},
	}

	mockRepo.On("GetPendingJobs", mock.Anything).Return(jobs, nil)

	mockIngester.On("Ingest", mock.Anything, "user-1", "kb-1").Return(&service.IngestResult{}, nil)
	mockRepo.On("UpdateJobStatus", mock.Anything, "job-1", domain.IngestJobStatusCompleted, "").Return(nil)

	mockIngester.On("Ingest", mock.Anything, "user-2", "kb-2").Return(&service.IngestResult{}, nil)
	mockRepo.On("UpdateJobStatus", mock.Anything, "job-2", domain.IngestJobStatusCompleted, "").Return(nil)

	worker := NewIngestWorker(mockRepo, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockIngester.AssertExpectations(t)
}

// TestIngestWorker_ProcessJobs_RepositoryError tests repository error handling
func TestIngestWorker_ProcessJobs_RepositoryError(t *testing.T) {
	mockRepo := new(MockIngestJobRepository)
	mockIngester := new(MockIngester)

	mockRepo.On("GetPendingJobs", mock.Anything).Return(nil, errors.New("database error"))

	worker := NewIngestWorker(mockRepo, mockIngester)
	err := worker.ProcessJobs(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch pending jobs")
	mockRepo.AssertExpectations(t)
}
