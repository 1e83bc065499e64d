package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stratosoft/ragline/internal/api"
	"github.com/stratosoft/ragline/internal/extract"
)

// URLExtractor defines the interface for single-page content extraction
type URLExtractor interface {
	Extract(ctx context.Context, rawURL string) (*extract.URLResult, error)
}

// DocumentArchive defines the optional raw-upload archive
type DocumentArchive interface {
	Store(ctx context.Context, key, contentType string, data []byte) error
}

// ExtractHandler serves the /extract endpoints
type ExtractHandler struct {
	urls    URLExtractor
	archive DocumentArchive
}

// NewExtractHandler creates a new ExtractHandler. archive may be nil; raw
// uploads are then not retained.
func NewExtractHandler(urls URLExtractor, archive DocumentArchive) *ExtractHandler {
	return &ExtractHandler{urls: urls, archive: archive}
}

// PDF extracts text from an uploaded PDF file
func (h *ExtractHandler) PDF(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file upload is required")
		return
	}
	defer file.Close()

	if header.Filename == "" || !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		api.Error(w, http.StatusBadRequest, "file must be a PDF")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	content, err := extract.PDF(data)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	// Archiving is best effort; extraction already succeeded.
	if h.archive != nil {
		key := fmt.Sprintf("uploads/%s.pdf", uuid.NewString())
		if err := h.archive.Store(r.Context(), key, "application/pdf", data); err != nil {
			log.Printf("failed to archive upload %s: %v", header.Filename, err)
		}
	}

	api.Success(w, content, header.Filename)
}

// ExtractURLRequest is the body for POST /extract/url
type ExtractURLRequest struct {
	URL string `json:"url"`
}

// URL extracts readable text from a web page
func (h *ExtractHandler) URL(w http.ResponseWriter, r *http.Request) {
	var req ExtractURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		api.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.urls.Extract(r.Context(), req.URL)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, result.Content, result.Title)
}
