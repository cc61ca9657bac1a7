package library

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// Resolver finds a document by a possibly fuzzy reference.
type Resolver interface {
	Resolve(ctx context.Context, documentID string) (document.Document, error)
}

// MetadataStore reads, lists and deletes document records.
type MetadataStore interface {
	Get(ctx context.Context, id string) (document.Document, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]document.Document, error)
	Delete(ctx context.Context, id string) error
}

// IndexStore removes documents from the search index.
type IndexStore interface {
	Delete(ctx context.Context, id string) error
}

// BlobStore removes originals and signs download URLs.
type BlobStore interface {
	Delete(ctx context.Context, key string) error
	PresignURL(ctx context.Context, key string) (string, error)
}
