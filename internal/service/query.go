package service

import (
	"context"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/telemetry"
)

// QueryAgentRepository defines the repository interface for agent lookup
type QueryAgentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
}

// Retriever defines the retrieval step of the query pipeline
type Retriever interface {
	Retrieve(ctx context.Context, query, knowledgeBaseID string) ([]domain.RetrievedMatch, error)
}

// Synthesizer defines the answer generation step of the query pipeline
type Synthesizer interface {
	Synthesize(ctx context.Context, persona, question string, matches []domain.RetrievedMatch) (string, error)
}

// QueryResult is the outcome of answering a question against an agent's
// knowledge base.
type QueryResult struct {
	Answer  string
	Matches []domain.RetrievedMatch
}

// QueryService resolves an agent, retrieves matching context from its
// knowledge base, and synthesizes an answer.
type QueryService struct {
	agents      QueryAgentRepository
	retriever   Retriever
	synthesizer Synthesizer
}

// NewQueryService creates a new QueryService instance
func NewQueryService(agents QueryAgentRepository, retriever Retriever, synthesizer Synthesizer) *QueryService {
	return &QueryService{
		agents:      agents,
		retriever:   retriever,
		synthesizer: synthesizer,
	}
}

// Answer runs the retrieval pipeline for one question. An agent that exists
// but has no user or knowledge base binding is an invalid-state error, not a
// not-found. When nothing in the knowledge base clears the similarity
// threshold the answer is synthesized over an empty context rather than
// failing; the model is free to say it does not know.
func (s *QueryService) Answer(ctx context.Context, query, agentID string) (*QueryResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "QueryService.Answer", telemetry.SpanAttributes{
		AgentID:   agentID,
		Operation: "query",
	})
	defer span.End()

	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if agentID == "" {
		return nil, domain.ErrMissingAgentID
	}

	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if !agent.Configured() {
		return nil, domain.ErrAgentMisconfigured
	}

	matches, err := s.retriever.Retrieve(ctx, query, agent.KnowledgeBaseID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	answer, err := s.synthesizer.Synthesize(ctx, agent.PromptContent, query, matches)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return &QueryResult{Answer: answer, Matches: matches}, nil
}
