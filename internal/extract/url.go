package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/textutil"
)

const (
	defaultFetchTimeout = 15 * time.Second
	// defaultMaxFetchBytes bounds how much of a page we are willing to read.
	defaultMaxFetchBytes = 5 << 20
)

// URLResult holds the readable content of a fetched page.
type URLResult struct {
	Content string
	Title   string
}

// URLExtractor fetches a single page and extracts its readable main content.
// It does not follow links or respect crawl policies; one URL in, one
// document out.
type URLExtractor struct {
	client   *http.Client
	maxBytes int64
}

// NewURLExtractor creates a URLExtractor with default timeout and size limits
func NewURLExtractor() *URLExtractor {
	return &URLExtractor{
		client:   &http.Client{Timeout: defaultFetchTimeout},
		maxBytes: defaultMaxFetchBytes,
	}
}

// NewURLExtractorWithClient creates a URLExtractor with a custom HTTP client (for testing)
func NewURLExtractorWithClient(client *http.Client, maxBytes int64) *URLExtractor {
	return &URLExtractor{client: client, maxBytes: maxBytes}
}

// Extract fetches rawURL and returns its readable text and title. Main
// content detection uses readability; when that comes back empty the page
// body text and <title> are used as a fallback.
func (e *URLExtractor) Extract(ctx context.Context, rawURL string) (*URLResult, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "url must be absolute http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to build request", err)
	}
	req.Header.Set("User-Agent", "ragline/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "failed to fetch url", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, domain.NewDomainError(domain.ErrCodeProvider, fmt.Sprintf("url returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "failed to read response body", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(body)), pageURL)
	content := ""
	title := ""
	if err == nil {
		content = strings.TrimSpace(textutil.Normalize(article.TextContent))
		title = strings.TrimSpace(article.Title)
	}

	if content == "" || title == "" {
		fallbackContent, fallbackTitle := fallbackExtract(body)
		if content == "" {
			content = fallbackContent
		}
		if title == "" {
			title = fallbackTitle
		}
	}

	if content == "" {
		return nil, domain.ErrEmptyContent
	}
	if title == "" {
		title = pageURL.String()
	}

	return &URLResult{Content: content, Title: title}, nil
}

// fallbackExtract pulls the raw body text and <title> when readability finds
// no main content, which happens on pages without article markup.
func fallbackExtract(body []byte) (string, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", ""
	}

	doc.Find("script, style, noscript").Remove()
	content := strings.TrimSpace(textutil.Normalize(doc.Find("body").Text()))
	content = strings.Join(strings.Fields(content), " ")
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return content, title
}
