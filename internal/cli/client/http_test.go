package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosoft/ragline/internal/api"
)

func newTestClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

func TestAPIClient_Post_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "q", body["query"])

		json.NewEncoder(w).Encode(api.Envelope{
			Content: "answer",
			Title:   "AI Response",
			Success: true,
		})
	}))
	defer server.Close()

	env, err := newTestClient(server.URL).Post("/query", map[string]string{"query": "q"})
	require.NoError(t, err)
	assert.Equal(t, "answer", env.Content)
	assert.Equal(t, "AI Response", env.Title)
	assert.True(t, env.Success)
}

func TestAPIClient_Post_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.Envelope{
			Success: false,
			Error:   "agent not found",
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Post("/query", map[string]string{"query": "q"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "agent not found", apiErr.Message)
}

func TestAPIClient_Post_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Post("/query", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "bad gateway")
}

func TestAPIClient_PostFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(filePath, []byte("%PDF-1.4 fake"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "doc.pdf", header.Filename)

		json.NewEncoder(w).Encode(api.Envelope{
			Content: "extracted",
			Title:   "doc.pdf",
			Success: true,
		})
	}))
	defer server.Close()

	env, err := newTestClient(server.URL).PostFile("/extract/pdf", "file", filePath)
	require.NoError(t, err)
	assert.Equal(t, "extracted", env.Content)
	assert.Equal(t, "doc.pdf", env.Title)
}

func TestAPIClient_PostFile_MissingFile(t *testing.T) {
	_, err := newTestClient("http://localhost:1").PostFile("/extract/pdf", "file", "/does/not/exist.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestNewAPIClient_ConfigCascade(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		os.Unsetenv(envAPIURL)
		c, err := NewAPIClient(nil)
		require.NoError(t, err)
		assert.Equal(t, defaultAPIURL, c.baseURL)
	})

	t.Run("env var", func(t *testing.T) {
		os.Setenv(envAPIURL, "http://example.com:9999")
		defer os.Unsetenv(envAPIURL)

		c, err := NewAPIClient(nil)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com:9999", c.baseURL)
	})
}
