package domain

import "time"

// Agent binds a user-facing persona to a knowledge base. Read-only from the
// retrieval pipeline's perspective.
type Agent struct {
	ID              string
	UserID          string
	KnowledgeBaseID string
	PromptContent   string
	CreatedAt       time.Time
}

// Configured reports whether the agent carries both identifiers the query
// path needs. An agent row without them is a configuration error, not a
// missing record.
func (a *Agent) Configured() bool {
	return a.UserID != "" && a.KnowledgeBaseID != ""
}
