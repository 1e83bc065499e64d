package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeProvider     = "PROVIDER_ERROR"
	ErrCodeInvalidState = "INVALID_STATE"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyContent         = NewDomainError(ErrCodeValidation, "content is empty after normalization")
	ErrEmptyQuery           = NewDomainError(ErrCodeValidation, "query must not be empty")
	ErrMissingUserID        = NewDomainError(ErrCodeValidation, "user id is required")
	ErrMissingKnowledgeBase = NewDomainError(ErrCodeValidation, "knowledge base id is required")
	ErrMissingAgentID       = NewDomainError(ErrCodeValidation, "agent id is required")
	ErrInvalidItemStatus    = NewDomainError(ErrCodeValidation, "invalid knowledge item status")
)

// Not found errors
var (
	ErrAgentNotFound         = NewDomainError(ErrCodeNotFound, "agent not found")
	ErrKnowledgeBaseNotFound = NewDomainError(ErrCodeNotFound, "knowledge base not found")
	ErrNoCompletedItems      = NewDomainError(ErrCodeNotFound, "No completed knowledge items found for this knowledge base.")
	ErrIngestJobNotFound     = NewDomainError(ErrCodeNotFound, "ingest job not found")
)

// Invalid state errors
var (
	// ErrAgentMisconfigured is returned when an agent row exists but lacks
	// the user or knowledge base binding needed to answer a query.
	ErrAgentMisconfigured = NewDomainError(ErrCodeInvalidState, "agent has no user or knowledge base configured")
	// ErrDimensionMismatch is returned when the stored embedding was produced
	// by a model with a different output dimensionality than the query-time model.
	ErrDimensionMismatch = NewDomainError(ErrCodeInvalidState, "stored embedding dimensions do not match the configured model")
)

// Provider errors
var (
	ErrEmbeddingProvider = NewDomainError(ErrCodeProvider, "embedding provider call failed")
	ErrChatProvider      = NewDomainError(ErrCodeProvider, "chat completion provider call failed")
)
