package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of uploaded files. PDF extraction is
// bounded: only the first maxPages pages and maxChars characters are kept,
// which is enough for classification and indexing.
type Extractor struct {
	maxPages int
	maxChars int
}

func New(maxPages, maxChars int) *Extractor {
	if maxPages <= 0 {
		maxPages = 3
	}
	if maxChars <= 0 {
		maxChars = 3000
	}
	return &Extractor{maxPages: maxPages, maxChars: maxChars}
}

// Extract returns the text content of the file.
func (e *Extractor) Extract(ctx context.Context, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case contentType == "application/pdf":
		return e.extractPDF(data)
	case strings.HasPrefix(contentType, "text/"), contentType == "application/json":
		return e.cap(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := reader.NumPage()
	if pages > e.maxPages {
		pages = e.maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page should not sink the whole document.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
		if b.Len() >= e.maxChars {
			break
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return e.cap(out), nil
}

func (e *Extractor) cap(text string) string {
	if len(text) > e.maxChars {
		return text[:e.maxChars]
	}
	return text
}
