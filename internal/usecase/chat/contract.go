package chat

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
)

// Planner runs the multi-strategy query cascade.
type Planner interface {
	Search(ctx context.Context, query, category string, maxResults int) ([]item.Item, error)
}

// Ranker filters and orders planner output.
type Ranker interface {
	RankAndFilter(ctx context.Context, query string, items []item.Item, minSimilarity float64) []ranked.Result
}

// Resolver finds the document behind an opaque identifier.
type Resolver interface {
	Resolve(ctx context.Context, documentID string) (document.Document, error)
}

// Completer is the model client for intent classification and answer
// generation.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
}
