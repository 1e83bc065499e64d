package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stratosoft/ragline/internal/api"
	"github.com/stratosoft/ragline/internal/api/handlers"
	"github.com/stratosoft/ragline/internal/api/middleware"
)

type RouterConfig struct {
	ExtractHandler *handlers.ExtractHandler
	IngestHandler  *handlers.IngestHandler
	QueryHandler   *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, "Knowledge Base Content Extractor API", "ragline")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/extract", func(r chi.Router) {
		r.Post("/pdf", cfg.ExtractHandler.PDF)
		r.Post("/url", cfg.ExtractHandler.URL)
	})

	r.Post("/knowledge_embedding", cfg.IngestHandler.Embed)
	r.Post("/knowledge_embedding/async", cfg.IngestHandler.EmbedAsync)

	r.Post("/query", cfg.QueryHandler.Answer)

	return r
}
