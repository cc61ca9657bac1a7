package planner

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// mockIndex implements the consumer interface for tests.
type mockIndex struct {
	searchFn func(ctx context.Context, query, category string, limit int) ([]item.Item, error)
	calls    []string // queries in call order
}

func (m *mockIndex) Search(ctx context.Context, query, category string, limit int) ([]item.Item, error) {
	m.calls = append(m.calls, query)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, category, limit)
	}
	return nil, nil
}

// mockCompleter implements the consumer interface for tests.
type mockCompleter struct {
	completeFn func(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
	calls      int
}

func (m *mockCompleter) Complete(
	ctx context.Context, prompt string, maxTokens int, temperature, topP float32,
) (string, error) {
	m.calls++
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt, maxTokens, temperature, topP)
	}
	return "", nil
}

func testItems(ids ...string) []item.Item {
	out := make([]item.Item, 0, len(ids))
	for _, id := range ids {
		it, _ := item.New(id, "title "+id, "excerpt "+id, item.LabelScore("HIGH"), nil, nil)
		out = append(out, it)
	}
	return out
}
