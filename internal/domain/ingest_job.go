package domain

import (
	"fmt"
	"time"
)

// IngestJobStatus represents the status of an async ingestion job
type IngestJobStatus string

const (
	IngestJobStatusPending   IngestJobStatus = "pending"
	IngestJobStatusCompleted IngestJobStatus = "completed"
	IngestJobStatusFailed    IngestJobStatus = "failed"
)

// IngestJob represents a queued request to recompute a knowledge base embedding
type IngestJob struct {
	ID              string
	UserID          string
	KnowledgeBaseID string
	Status          IngestJobStatus
	Retries         int32
	Error           string
	CreatedAt       time.Time
	ProcessedAt     *time.Time
}

// ValidateIngestJob validates an IngestJob instance
func ValidateIngestJob(j *IngestJob) error {
	if j == nil {
		return fmt.Errorf("ingest job cannot be nil")
	}

	if j.ID == "" {
		return fmt.Errorf("ingest job ID is required")
	}

	if j.UserID == "" || j.KnowledgeBaseID == "" {
		return fmt.Errorf("ingest job must have UserID and KnowledgeBaseID")
	}

	if !isValidIngestJobStatus(j.Status) {
		return fmt.Errorf("ingest job Status is invalid: %s", j.Status)
	}

	if j.Retries < 0 {
		return fmt.Errorf("ingest job Retries cannot be negative")
	}

	return nil
}

// isValidIngestJobStatus checks if an IngestJobStatus is valid
func isValidIngestJobStatus(s IngestJobStatus) bool {
	switch s {
	case IngestJobStatusPending, IngestJobStatusCompleted, IngestJobStatusFailed:
		return true
	}
	return false
}
