package resolver

import (
	"context"
	"time"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// mockIndex implements the consumer interface for tests.
type mockIndex struct {
	searchFn func(ctx context.Context, query, category string, limit int) ([]item.Item, error)
	calls    []string
}

func (m *mockIndex) Search(ctx context.Context, query, category string, limit int) ([]item.Item, error) {
	m.calls = append(m.calls, query)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, category, limit)
	}
	return nil, nil
}

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, id string) (document.Document, error)
	calls int
}

func (m *mockStore) Get(ctx context.Context, id string) (document.Document, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return document.Document{}, domain.ErrNotFound
}

func indexItem(id, title string) item.Item {
	it, _ := item.New(id, title, "excerpt of "+title, item.LabelScore("HIGH"), nil, nil)
	return it
}

func storedDoc(id, title, content string) document.Document {
	return document.Reconstruct(
		id, title, title+".pdf", content, "summary", document.CategoryPolicies,
		[]string{"keyword"}, "application/pdf", 1234,
		"documents/"+id+"/"+title, document.StatusCompleted, time.Now().UTC(),
	)
}
