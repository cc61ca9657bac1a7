package ingest

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// BlobStore holds the original uploaded files.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// MetadataStore persists document records.
type MetadataStore interface {
	Put(ctx context.Context, doc document.Document) error
}

// IndexWriter upserts documents into the search index.
type IndexWriter interface {
	Put(ctx context.Context, doc document.Document) error
}

// Extractor pulls text out of an uploaded file.
type Extractor interface {
	Extract(ctx context.Context, contentType string, data []byte) (string, error)
}

// Completer is the model client used for classification.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
}
