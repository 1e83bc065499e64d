package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/stratosoft/ragline/internal/api/handlers"
	"github.com/stratosoft/ragline/internal/config"
	"github.com/stratosoft/ragline/internal/database"
	"github.com/stratosoft/ragline/internal/extract"
	"github.com/stratosoft/ragline/internal/jobs"
	"github.com/stratosoft/ragline/internal/openai"
	"github.com/stratosoft/ragline/internal/repository"
	"github.com/stratosoft/ragline/internal/server"
	"github.com/stratosoft/ragline/internal/service"
	"github.com/stratosoft/ragline/internal/storage"
	"github.com/stratosoft/ragline/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the ragline API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: cfg.SentrySampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	baseRepo := repository.NewKnowledgeBaseRepository(pool)
	itemRepo := repository.NewKnowledgeItemRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	jobRepo := repository.NewIngestJobRepository(pool)

	var archive handlers.DocumentArchive
	if cfg.HasS3() {
		s3Archive, err := storage.NewArchive(ctx, storage.ArchiveConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create document archive: %w", err)
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("document archive bucket '%s' ready", cfg.S3Bucket)
		archive = s3Archive
	}

	var embeddingClient *openai.Client
	var ingestWorker *jobs.Worker
	var ingestHandler *handlers.IngestHandler
	var queryHandler *handlers.QueryHandler
	if cfg.HasOpenAI() {
		embeddingClient = openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			EmbeddingModel:      cfg.EmbeddingModel,
			EmbeddingDimensions: cfg.EmbeddingDimensions,
			EmbeddingMaxTokens:  cfg.EmbeddingMaxTokens,
			ChatModel:           cfg.ChatModel,
			ChatMaxTokens:       cfg.ChatMaxTokens,
			ChatTemperature:     cfg.ChatTemperature,
		})

		ingestSvc := service.NewIngestService(itemRepo, baseRepo, embeddingClient)
		retrievalSvc := service.NewRetrievalServiceWithLimits(baseRepo, embeddingClient, cfg.MatchThreshold, cfg.MatchCount)
		synthesisSvc := service.NewSynthesisService(embeddingClient)
		querySvc := service.NewQueryService(agentRepo, retrievalSvc, synthesisSvc)

		ingestHandler = handlers.NewIngestHandler(ingestSvc, jobRepo)
		queryHandler = handlers.NewQueryHandler(querySvc)

		ingestProcessor := jobs.NewIngestWorker(jobRepo, ingestSvc)
		ingestWorker = jobs.NewWorker(ingestProcessor, time.Duration(cfg.WorkerPollSeconds)*time.Second)
		go ingestWorker.Start(ctx)
		log.Println("ingest worker started")
	} else {
		ingestHandler = handlers.NewIngestHandler(&noOpIngester{}, jobRepo)
		queryHandler = handlers.NewQueryHandler(&noOpAnswerer{})
		log.Println("RAGLINE_OPENAI_API_KEY not set; embedding and query endpoints disabled")
	}

	extractHandler := handlers.NewExtractHandler(extract.NewURLExtractor(), archive)

	router := server.NewRouter(server.RouterConfig{
		ExtractHandler: extractHandler,
		IngestHandler:  ingestHandler,
		QueryHandler:   queryHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if ingestWorker != nil {
		ingestWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

type noOpIngester struct{}

func (s *noOpIngester) Ingest(ctx context.Context, userID, knowledgeBaseID string) (*service.IngestResult, error) {
	return nil, fmt.Errorf("embedding not configured: RAGLINE_OPENAI_API_KEY required")
}

type noOpAnswerer struct{}

func (s *noOpAnswerer) Answer(ctx context.Context, query, agentID string) (*service.QueryResult, error) {
	return nil, fmt.Errorf("query not configured: RAGLINE_OPENAI_API_KEY required")
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
