package planner

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// Index is the full-text search collaborator.
type Index interface {
	Search(ctx context.Context, query, category string, limit int) ([]item.Item, error)
}

// Completer is the model client used for term extraction and query broadening.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
}
