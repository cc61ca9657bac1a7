package suggest

import (
	"context"
	"time"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// Cache is a TTL key-value store. Get returns domain.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MetadataStore lists documents per category for collection insights.
type MetadataStore interface {
	ListByCategory(ctx context.Context, category string, limit int) ([]document.Document, error)
}

// Completer is the model client used for suggestion generation.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
}
