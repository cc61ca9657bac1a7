package relevance

import (
	"context"

	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

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

func testItem(id, title string, score item.Score) item.Item {
	it, _ := item.New(id, title, "excerpt for "+title, score, nil, nil)
	return it
}
