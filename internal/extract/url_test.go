package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosoft/ragline/internal/domain"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Capital Cities</title></head>
<body>
<article>
<h1>Capital Cities</h1>
<p>Paris is the capital of France. It has been the seat of government for centuries
and remains the political and cultural center of the country today.</p>
<p>Berlin is the capital of Germany. The city was reunified in 1990 and has since
grown into one of the largest metropolitan areas in the European Union.</p>
</article>
</body>
</html>`

func TestURLExtractor_Extract(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts readable content and title", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(articleHTML))
		}))
		defer srv.Close()

		result, err := NewURLExtractor().Extract(ctx, srv.URL)
		require.NoError(t, err)
		assert.Contains(t, result.Content, "Paris is the capital of France")
		assert.NotContains(t, result.Content, "<p>")
		assert.Equal(t, "Capital Cities", result.Title)
	})

	t.Run("falls back to body text for pages without article markup", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head><title>Plain Page</title><script>var x = 1;</script></head><body><div>just a div of text</div></body></html>`))
		}))
		defer srv.Close()

		result, err := NewURLExtractor().Extract(ctx, srv.URL)
		require.NoError(t, err)
		assert.Contains(t, result.Content, "just a div of text")
		assert.NotContains(t, result.Content, "var x")
		assert.Equal(t, "Plain Page", result.Title)
	})

	t.Run("rejects relative and non-http urls", func(t *testing.T) {
		e := NewURLExtractor()

		for _, raw := range []string{"not-a-url", "ftp://example.com/file", "/relative/path"} {
			_, err := e.Extract(ctx, raw)
			require.Error(t, err, raw)
			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
		}
	})

	t.Run("error status maps to provider error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewURLExtractor().Extract(ctx, srv.URL)
		require.Error(t, err)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeProvider, domainErr.Code)
	})

	t.Run("empty page is a validation error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head></head><body></body></html>`))
		}))
		defer srv.Close()

		_, err := NewURLExtractor().Extract(ctx, srv.URL)
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})
}
