package resolver

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// Index is the full-text search collaborator used for fuzzy probes.
type Index interface {
	Search(ctx context.Context, query, category string, limit int) ([]item.Item, error)
}

// MetadataStore is the durable document record store. Get returns
// domain.ErrNotFound when no record exists for the key.
type MetadataStore interface {
	Get(ctx context.Context, id string) (document.Document, error)
}
