package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfwise/shelfwise/internal/db"
	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
)

func sampleDoc() document.Document {
	return document.Reconstruct(
		"doc-1", "Admission Policy.pdf", "Admission Policy.pdf",
		"Admissions open in May.", "Covers admissions.", document.CategoryPolicies,
		[]string{"admission", "policy"}, "application/pdf", 2048,
		"documents/doc-1/admission-policy.pdf", document.StatusCompleted,
		time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	)
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	created := false
	store := &mockStore{
		indexExistsFn: func(_ context.Context, name string) (bool, error) {
			if name != "idx:documents" {
				t.Errorf("unexpected index name %q", name)
			}
			return true, nil
		},
		createIndexFn: func(context.Context, *db.IndexDefinition) error {
			created = true
			return nil
		},
	}
	repo := New(store, "idx:documents", "documents:")

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected no FT.CREATE when the index exists")
	}
}

func TestEnsureIndex_CreatesSchema(t *testing.T) {
	var def *db.IndexDefinition
	store := &mockStore{
		createIndexFn: func(_ context.Context, d *db.IndexDefinition) error {
			def = d
			return nil
		},
	}
	repo := New(store, "idx:documents", "documents:")

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def == nil {
		t.Fatal("expected an index definition")
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "documents:" {
		t.Errorf("unexpected prefixes: %v", def.Prefixes)
	}
	fields := map[string]db.IndexFieldType{}
	for _, f := range def.Fields {
		fields[f.Name] = f.Type
	}
	if fields["title"] != db.IndexFieldText || fields["category"] != db.IndexFieldTag {
		t.Errorf("unexpected schema: %v", fields)
	}
}

func TestPut_WritesFlattenedHash(t *testing.T) {
	var gotKey string
	var gotFields map[string]string
	store := &mockStore{
		hsetFn: func(_ context.Context, key string, fields map[string]string) error {
			gotKey = key
			gotFields = fields
			return nil
		},
	}
	repo := New(store, "idx:documents", "documents:")

	if err := repo.Put(context.Background(), sampleDoc()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "documents:doc-1" {
		t.Errorf("key = %q, want documents:doc-1", gotKey)
	}
	if gotFields["category"] != document.CategoryPolicies {
		t.Errorf("category field = %q", gotFields["category"])
	}
	if gotFields["keywords"] != "admission,policy" {
		t.Errorf("keywords field = %q", gotFields["keywords"])
	}
	if gotFields["file_size"] != "2048" {
		t.Errorf("file_size field = %q", gotFields["file_size"])
	}
	if gotFields["upload_date"] != "2025-05-01T12:00:00Z" {
		t.Errorf("upload_date field = %q", gotFields["upload_date"])
	}
}

func TestGet_RoundTrip(t *testing.T) {
	fields := buildHashFields(func() *document.Document { d := sampleDoc(); return &d }())
	store := &mockStore{
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			if key != "documents:doc-1" {
				return nil, db.ErrKeyNotFound
			}
			return fields, nil
		},
	}
	repo := New(store, "idx:documents", "documents:")

	got, err := repo.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "doc-1" || got.Title() != "Admission Policy.pdf" {
		t.Errorf("unexpected document: %s %s", got.ID(), got.Title())
	}
	if got.Size() != 2048 {
		t.Errorf("size = %d, want 2048", got.Size())
	}
	if !got.UploadedAt().Equal(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("upload date = %v", got.UploadedAt())
	}
}

func TestGet_Missing(t *testing.T) {
	repo := New(&mockStore{}, "idx:documents", "documents:")
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDelete_MissingDocument(t *testing.T) {
	repo := New(&mockStore{}, "idx:documents", "documents:")
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestSearch_MapsEntriesToItems(t *testing.T) {
	store := &mockStore{
		searchTextFn: func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
			if q.Category != document.CategoryPolicies {
				t.Errorf("category filter = %q", q.Category)
			}
			if q.TopK != 5 {
				t.Errorf("topK = %d, want 5", q.TopK)
			}
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{
						Key:   "documents:doc-1",
						Score: 3.2,
						Fields: map[string]string{
							"title":    "Admission Policy.pdf",
							"content":  "Admissions open in May.",
							"category": document.CategoryPolicies,
							"keywords": "admission,policy",
						},
					},
					{Key: "documents:", Score: 1.0, Fields: map[string]string{}},
				},
			}, nil
		},
	}
	repo := New(store, "idx:documents", "documents:")

	items, err := repo.Search(context.Background(), "admission", document.CategoryPolicies, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the empty-id hit to be dropped, got %d items", len(items))
	}
	it := items[0]
	if it.ID() != "doc-1" || it.Title() != "Admission Policy.pdf" {
		t.Errorf("unexpected item: %s %s", it.ID(), it.Title())
	}
	if v, numeric := it.Score().Value(); !numeric || v != 3.2 {
		t.Errorf("score = %v (numeric %v), want 3.2", v, numeric)
	}
	if it.Category() != document.CategoryPolicies {
		t.Errorf("category = %q", it.Category())
	}
	if len(it.Keywords()) != 2 {
		t.Errorf("keywords = %v", it.Keywords())
	}
}

func TestListByCategory_BuildsTagQuery(t *testing.T) {
	store := &mockStore{
		searchListFn: func(_ context.Context, index, query string, _, limit int, _ []string) (*db.SearchResult, error) {
			if query != "@category:{training_knowledge}" {
				t.Errorf("query = %q", query)
			}
			if limit != 10 {
				t.Errorf("limit = %d, want 10", limit)
			}
			return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
				{Key: "documents:t1", Fields: map[string]string{"title": "Onboarding Guide"}},
			}}, nil
		},
	}
	repo := New(store, "idx:documents", "documents:")

	docs, err := repo.ListByCategory(context.Background(), document.CategoryTraining, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "t1" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}
