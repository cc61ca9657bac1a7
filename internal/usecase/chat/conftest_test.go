package chat

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
)

// mockPlanner implements the consumer interface for tests.
type mockPlanner struct {
	searchFn func(ctx context.Context, query, category string, maxResults int) ([]item.Item, error)
	calls    int
}

func (m *mockPlanner) Search(ctx context.Context, query, category string, maxResults int) ([]item.Item, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query, category, maxResults)
	}
	return nil, nil
}

// mockRanker implements the consumer interface for tests.
type mockRanker struct {
	rankFn func(ctx context.Context, query string, items []item.Item, minSimilarity float64) []ranked.Result
}

func (m *mockRanker) RankAndFilter(
	ctx context.Context, query string, items []item.Item, minSimilarity float64,
) []ranked.Result {
	if m.rankFn != nil {
		return m.rankFn(ctx, query, items, minSimilarity)
	}
	out := make([]ranked.Result, 0, len(items))
	for _, it := range items {
		out = append(out, ranked.New(it, 0.9))
	}
	return out
}

// mockResolver implements the consumer interface for tests.
type mockResolver struct {
	resolveFn func(ctx context.Context, documentID string) (document.Document, error)
	calls     int
}

func (m *mockResolver) Resolve(ctx context.Context, documentID string) (document.Document, error) {
	m.calls++
	if m.resolveFn != nil {
		return m.resolveFn(ctx, documentID)
	}
	return document.Document{}, domain.ErrDocumentNotFound
}

// mockCompleter implements the consumer interface for tests and records
// every prompt it was given.
type mockCompleter struct {
	completeFn func(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
	prompts    []string
	maxTokens  []int
}

func (m *mockCompleter) Complete(
	ctx context.Context, prompt string, maxTokens int, temperature, topP float32,
) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.maxTokens = append(m.maxTokens, maxTokens)
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt, maxTokens, temperature, topP)
	}
	return "", nil
}

func newTestService() (*Service, *mockPlanner, *mockResolver, *mockCompleter) {
	planner := &mockPlanner{}
	resolver := &mockResolver{}
	llm := &mockCompleter{}
	svc := New(planner, &mockRanker{}, resolver, llm)
	return svc, planner, resolver, llm
}

func searchItems(ids ...string) []item.Item {
	out := make([]item.Item, 0, len(ids))
	for _, id := range ids {
		it, _ := item.New(id, "Title "+id, "excerpt "+id, item.LabelScore("HIGH"), nil,
			map[string]string{"category": document.CategoryPolicies})
		out = append(out, it)
	}
	return out
}
