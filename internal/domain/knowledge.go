package domain

import (
	"fmt"
	"time"
)

// KnowledgeItemStatus represents the processing status of an ingested item.
// Items are created by an external ingestion process; this pipeline only
// reads items that reached "completed".
type KnowledgeItemStatus string

const (
	KnowledgeItemStatusPending   KnowledgeItemStatus = "pending"
	KnowledgeItemStatusCompleted KnowledgeItemStatus = "completed"
	KnowledgeItemStatusFailed    KnowledgeItemStatus = "failed"
)

// KnowledgeItem is one unit of ingested content belonging to a knowledge base.
type KnowledgeItem struct {
	ID              string
	UserID          string
	KnowledgeBaseID string
	Content         string
	Status          KnowledgeItemStatus
	CreatedAt       time.Time
}

// KnowledgeBase aggregates knowledge items for one logical corpus. The
// embedding is nil until the first ingestion run; it always corresponds to
// the concatenation of the completed items at the time of the last run and
// goes stale if items change afterward (re-ingestion is the caller's job).
type KnowledgeBase struct {
	ID        string
	UserID    string
	Name      string
	Embedding []float32
	Metadata  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEmbedding reports whether an ingestion run has stored a vector.
func (kb *KnowledgeBase) HasEmbedding() bool {
	return len(kb.Embedding) > 0
}

// ValidateKnowledgeItem validates a KnowledgeItem instance
func ValidateKnowledgeItem(item *KnowledgeItem) error {
	if item == nil {
		return fmt.Errorf("knowledge item cannot be nil")
	}

	if item.ID == "" {
		return fmt.Errorf("knowledge item ID is required")
	}

	if item.UserID == "" {
		return fmt.Errorf("knowledge item UserID is required")
	}

	if item.KnowledgeBaseID == "" {
		return fmt.Errorf("knowledge item KnowledgeBaseID is required")
	}

	if !isValidKnowledgeItemStatus(item.Status) {
		return fmt.Errorf("knowledge item Status is invalid: %s", item.Status)
	}

	return nil
}

// isValidKnowledgeItemStatus checks if a KnowledgeItemStatus is valid
func isValidKnowledgeItemStatus(s KnowledgeItemStatus) bool {
	switch s {
	case KnowledgeItemStatusPending, KnowledgeItemStatusCompleted, KnowledgeItemStatusFailed:
		return true
	}
	return false
}
