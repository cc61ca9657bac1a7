package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfwise/shelfwise/internal/db"
	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// store is the consumer interface for the search index (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

var returnFields = []string{
	"title", "filename", "content", "summary", "category", "keywords",
	"file_type", "file_size", "s3_key", "status", "upload_date",
}

// Repo is the full-text document index over hash keys.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// EnsureIndex creates the FT index if it does not exist yet. Safe to call
// on every startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.indexName, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName,
		Prefixes: []string{r.keyPrefix},
		Fields: []db.IndexField{
			{Name: "title", Type: db.IndexFieldText},
			{Name: "content", Type: db.IndexFieldText},
			{Name: "summary", Type: db.IndexFieldText},
			{Name: "category", Type: db.IndexFieldTag, TagSeparator: ","},
			{Name: "keywords", Type: db.IndexFieldTag, TagSeparator: ","},
			{Name: "status", Type: db.IndexFieldTag, TagSeparator: ","},
			{Name: "file_size", Type: db.IndexFieldNumeric},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", r.indexName, err)
	}
	return nil
}

// Put upserts a document into the index.
func (r *Repo) Put(ctx context.Context, doc document.Document) error {
	key := r.keyPrefix + doc.ID()
	if err := r.store.HSet(ctx, key, buildHashFields(&doc)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns an indexed document by its exact ID.
func (r *Repo) Get(ctx context.Context, id string) (document.Document, error) {
	key := r.keyPrefix + id
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return document.Document{}, domain.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return document.Document{}, domain.ErrDocumentNotFound
	}
	return entryToDocument(db.SearchEntry{Key: key, Fields: fields}, r.keyPrefix), nil
}

// Delete removes a document from the index.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.keyPrefix + id
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Search runs BM25 text search, optionally narrowed to one category.
// Empty-id hits are dropped rather than surfaced as broken items.
func (r *Repo) Search(ctx context.Context, query, category string, limit int) ([]item.Item, error) {
	result, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.indexName,
		Query:        query,
		Category:     category,
		TopK:         limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.indexName, err)
	}
	if result == nil {
		return nil, nil
	}

	items := make([]item.Item, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if it, ok := entryToItem(entry, r.keyPrefix); ok {
			items = append(items, it)
		}
	}
	return items, nil
}

// ListByCategory pages through one category's documents.
func (r *Repo) ListByCategory(ctx context.Context, category string, limit int) ([]document.Document, error) {
	query := "*"
	if category != "" {
		query = fmt.Sprintf("@category:{%s}", category)
	}
	result, err := r.store.SearchList(ctx, r.indexName, query, 0, limit, returnFields)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	if result == nil {
		return nil, nil
	}

	docs := make([]document.Document, 0, len(result.Entries))
	for _, entry := range result.Entries {
		docs = append(docs, entryToDocument(entry, r.keyPrefix))
	}
	return docs, nil
}

// Count returns the number of indexed documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName, "*")
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.indexName, err)
	}
	return n, nil
}
