package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/telemetry"
)

// ChatClient defines the interface for chat completions
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DefaultPersona is the system message used when an agent has no prompt of its own.
const DefaultPersona = "You are a helpful assistant that answers questions using the provided context."

// SynthesisService turns retrieved matches into an answer via chat completion.
type SynthesisService struct {
	client ChatClient
}

// NewSynthesisService creates a new SynthesisService instance
func NewSynthesisService(client ChatClient) *SynthesisService {
	return &SynthesisService{client: client}
}

// Synthesize builds the grounded prompt from the matches and asks the chat
// model to answer. Match contents are joined with a newline in retrieval
// order. The persona is sent verbatim as the system message. An empty answer
// from the provider is returned as-is; the caller decides how to present it.
func (s *SynthesisService) Synthesize(ctx context.Context, persona, question string, matches []domain.RetrievedMatch) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "SynthesisService.Synthesize", telemetry.SpanAttributes{
		Operation: "synthesize",
	})
	defer span.End()

	if question == "" {
		return "", domain.ErrEmptyQuery
	}
	if persona == "" {
		persona = DefaultPersona
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Content)
	}
	contextText := strings.Join(parts, "\n")

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)

	answer, err := s.client.Complete(ctx, persona, prompt)
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "failed to generate answer", err)
	}
	return answer, nil
}
