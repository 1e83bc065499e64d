//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratosoft/ragline/internal/api"
	"github.com/stratosoft/ragline/internal/api/handlers"
	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/extract"
	"github.com/stratosoft/ragline/internal/jobs"
	"github.com/stratosoft/ragline/internal/repository"
	"github.com/stratosoft/ragline/internal/server"
	"github.com/stratosoft/ragline/internal/service"
	"github.com/stratosoft/ragline/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client

	Chat        *stubChat
	IngestJobs  *jobs.IngestWorker
	UserID      string
	KnowledgeID string
	AgentID     string
}

// stubEmbedder is a deterministic embedding provider. Every text maps to the
// same unit vector, so a stored embedding always matches a query embedding
// with similarity 1.0.
type stubEmbedder struct{}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 1536)
	vec[0] = 1
	return vec, nil
}

// stubChat records the last prompt and returns a canned answer.
type stubChat struct {
	mu         sync.Mutex
	LastSystem string
	LastUser   string
	Answer     string
}

func (s *stubChat) Complete(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastSystem = system
	s.LastUser = user
	return s.Answer, nil
}

func (s *stubChat) LastPrompt() (system, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastSystem, s.LastUser
}

// SetupE2EEnv creates a full E2E test environment with a database container
// and a running HTTP server backed by stub embedding and chat providers.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	chat := &stubChat{Answer: "The capital of France is Paris."}
	serverURL, serverCloser, ingestWorker := startServer(t, pool, chat, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		Chat:         chat,
		IngestJobs:   ingestWorker,
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Seed creates a user-scoped knowledge base with completed items and an agent
// bound to it.
func (e *E2ETestEnv) Seed(itemContents ...string) {
	e.UserID = uuid.NewString()
	e.KnowledgeID = uuid.NewString()
	e.AgentID = uuid.NewString()

	now := time.Now().UTC()

	baseRepo := repository.NewKnowledgeBaseRepository(e.Pool)
	if err := baseRepo.Create(e.Ctx, &domain.KnowledgeBase{
		ID:        e.KnowledgeID,
		UserID:    e.UserID,
		Name:      "e2e knowledge base",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		e.T.Fatalf("failed to seed knowledge base: %v", err)
	}

	itemRepo := repository.NewKnowledgeItemRepository(e.Pool)
	for i, content := range itemContents {
		if err := itemRepo.Create(e.Ctx, &domain.KnowledgeItem{
			ID:              uuid.NewString(),
			UserID:          e.UserID,
			KnowledgeBaseID: e.KnowledgeID,
			Content:         content,
			Status:          domain.KnowledgeItemStatusCompleted,
			CreatedAt:       now.Add(time.Duration(i) * time.Second),
		}); err != nil {
			e.T.Fatalf("failed to seed knowledge item: %v", err)
		}
	}

	agentRepo := repository.NewAgentRepository(e.Pool)
	if err := agentRepo.Create(e.Ctx, &domain.Agent{
		ID:              e.AgentID,
		UserID:          e.UserID,
		KnowledgeBaseID: e.KnowledgeID,
		PromptContent:   "",
		CreatedAt:       now,
	}); err != nil {
		e.T.Fatalf("failed to seed agent: %v", err)
	}
}

// Post performs a POST request and decodes the response envelope. A non-2xx
// status is returned alongside the envelope, not as an error.
func (e *E2ETestEnv) Post(path string, body interface{}) (int, *api.Envelope, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal body: %w", err)
	}

	resp, err := e.HTTPClient.Post(e.ServerURL+path, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var env api.Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to parse response %q: %w", respBody, err)
	}

	return resp.StatusCode, &env, nil
}

// Get performs a GET request and returns the raw body.
func (e *E2ETestEnv) Get(path string) (int, []byte, error) {
	resp, err := e.HTTPClient.Get(e.ServerURL + path)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

// startServer starts the HTTP server with all handlers wired to stub providers
func startServer(t *testing.T, pool *pgxpool.Pool, chat *stubChat, port int) (string, func(), *jobs.IngestWorker) {
	baseRepo := repository.NewKnowledgeBaseRepository(pool)
	itemRepo := repository.NewKnowledgeItemRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	jobRepo := repository.NewIngestJobRepository(pool)

	embedder := &stubEmbedder{}
	ingestSvc := service.NewIngestService(itemRepo, baseRepo, embedder)
	retrievalSvc := service.NewRetrievalService(baseRepo, embedder)
	synthesisSvc := service.NewSynthesisService(chat)
	querySvc := service.NewQueryService(agentRepo, retrievalSvc, synthesisSvc)

	router := server.NewRouter(server.RouterConfig{
		ExtractHandler: handlers.NewExtractHandler(extract.NewURLExtractor(), nil),
		IngestHandler:  handlers.NewIngestHandler(ingestSvc, jobRepo),
		QueryHandler:   handlers.NewQueryHandler(querySvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}

	return serverURL, closer, jobs.NewIngestWorker(jobRepo, ingestSvc)
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
