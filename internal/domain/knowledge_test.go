package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateKnowledgeItem_Valid(t *testing.T) {
	item := &KnowledgeItem{
		ID:              "item-1",
		UserID:          "user-1",
		KnowledgeBaseID: "kb-1",
		Content:         "Paris is the capital of France.",
		Status:          KnowledgeItemStatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}

	assert.NoError(t, ValidateKnowledgeItem(item))
}

func TestValidateKnowledgeItem_Nil(t *testing.T) {
	err := ValidateKnowledgeItem(nil)
	assert.Error(t, err)
}

func TestValidateKnowledgeItem_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		item *KnowledgeItem
	}{
		{"missing ID", &KnowledgeItem{UserID: "u", KnowledgeBaseID: "kb", Status: KnowledgeItemStatusCompleted}},
		{"missing UserID", &KnowledgeItem{ID: "i", KnowledgeBaseID: "kb", Status: KnowledgeItemStatusCompleted}},
		{"missing KnowledgeBaseID", &KnowledgeItem{ID: "i", UserID: "u", Status: KnowledgeItemStatusCompleted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateKnowledgeItem(tt.item))
		})
	}
}

func TestValidateKnowledgeItem_InvalidStatus(t *testing.T) {
	item := &KnowledgeItem{
		ID:              "item-1",
		UserID:          "user-1",
		KnowledgeBaseID: "kb-1",
		Status:          KnowledgeItemStatus("archived"),
	}

	err := ValidateKnowledgeItem(item)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Status is invalid")
}

func TestKnowledgeBase_HasEmbedding(t *testing.T) {
	kb := &KnowledgeBase{ID: "kb-1", UserID: "user-1"}
	assert.False(t, kb.HasEmbedding())

	kb.Embedding = make([]float32, 1536)
	assert.True(t, kb.HasEmbedding())
}

func TestAgent_Configured(t *testing.T) {
	agent := &Agent{ID: "agent-1", UserID: "user-1", KnowledgeBaseID: "kb-1"}
	assert.True(t, agent.Configured())

	assert.False(t, (&Agent{ID: "agent-1", UserID: "user-1"}).Configured())
	assert.False(t, (&Agent{ID: "agent-1", KnowledgeBaseID: "kb-1"}).Configured())
}
