// Package extract pulls plain text out of uploaded documents and web pages
// so it can be stored as knowledge items.
package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/textutil"
)

// PDF extracts the plain text of every page of a PDF document. The text is
// normalized (newlines to spaces, control characters stripped) before being
// returned. A document that parses but yields no text is a validation error;
// scanned PDFs without a text layer fall into that bucket.
func PDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to parse PDF", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to extract PDF text", err)
		}
		if sb.Len() > 0 && text != "" {
			sb.WriteString(" ")
		}
		sb.WriteString(text)
	}

	content := strings.TrimSpace(textutil.Normalize(sb.String()))
	if content == "" {
		return "", domain.ErrEmptyContent
	}
	return content, nil
}

// PDFFromReader is a convenience wrapper for multipart uploads.
func PDFFromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to read PDF upload", err)
	}
	return PDF(data)
}
