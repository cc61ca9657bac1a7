package suggest

import (
	"context"
	"time"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// mockStore implements MetadataStore for tests.
type mockStore struct {
	listFn func(ctx context.Context, category string, limit int) ([]document.Document, error)
}

func (m *mockStore) ListByCategory(ctx context.Context, category string, limit int) ([]document.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, category, limit)
	}
	return nil, nil
}

// memCache is an in-memory Cache that ignores TTLs.
type memCache struct {
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

// mockCompleter records calls.
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

func testDoc(id, title, category string, keywords ...string) document.Document {
	return document.Reconstruct(
		id, title, title+".pdf", "content", "summary", category,
		keywords, "application/pdf", 100, "documents/"+id+"/"+title,
		document.StatusCompleted, time.Time{},
	)
}
