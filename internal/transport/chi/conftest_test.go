package chi

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	chatdom "github.com/shelfwise/shelfwise/internal/domain/chat"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/job"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
	healthuc "github.com/shelfwise/shelfwise/internal/usecase/health"
)

// mockSearcher implements Searcher for tests.
type mockSearcher struct {
	searchFn func(ctx context.Context, query, category string, maxResults int) ([]item.Item, error)
}

func (m *mockSearcher) Search(ctx context.Context, query, category string, maxResults int) ([]item.Item, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, category, maxResults)
	}
	return nil, nil
}

// mockRanker implements Ranker for tests.
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

// mockChatter implements Chatter for tests.
type mockChatter struct {
	converseFn func(ctx context.Context, message string, conv *chatdom.Context) (chatdom.Reply, error)
}

func (m *mockChatter) Converse(ctx context.Context, message string, conv *chatdom.Context) (chatdom.Reply, error) {
	if m.converseFn != nil {
		return m.converseFn(ctx, message, conv)
	}
	return chatdom.GeneralReply{Message: "ok"}, nil
}

// mockUploader implements Uploader for tests.
type mockUploader struct {
	submitFn func(ctx context.Context, filename, contentType string, data []byte) (string, string, error)
	jobFn    func(jobID string) (job.Job, error)
}

func (m *mockUploader) Submit(ctx context.Context, filename, contentType string, data []byte) (string, string, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, filename, contentType, data)
	}
	return "job-1", "doc-1", nil
}

func (m *mockUploader) Job(jobID string) (job.Job, error) {
	if m.jobFn != nil {
		return m.jobFn(jobID)
	}
	return job.Job{}, domain.ErrJobNotFound
}

// mockLibrary implements Library for tests.
type mockLibrary struct {
	getFn    func(ctx context.Context, id string) (document.Document, error)
	listFn   func(ctx context.Context, category string, limit int) ([]document.Document, error)
	urlFn    func(ctx context.Context, id string) (string, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockLibrary) Get(ctx context.Context, id string) (document.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return document.Document{}, domain.ErrDocumentNotFound
}

func (m *mockLibrary) List(ctx context.Context, category string, limit int) ([]document.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, category, limit)
	}
	return nil, nil
}

func (m *mockLibrary) DownloadURL(ctx context.Context, id string) (string, error) {
	if m.urlFn != nil {
		return m.urlFn(ctx, id)
	}
	return "", domain.ErrDocumentNotFound
}

func (m *mockLibrary) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return domain.ErrDocumentNotFound
}

// mockSuggester implements Suggester for tests.
type mockSuggester struct {
	generateFn func(ctx context.Context, conversationContext string, limit int) ([]string, error)
}

func (m *mockSuggester) Generate(ctx context.Context, conversationContext string, limit int) ([]string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, conversationContext, limit)
	}
	return []string{"Find the admission policy"}, nil
}

// mockHealth implements HealthChecker for tests.
type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	if m.report.Status == "" {
		return healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}
	}
	return m.report
}

type testDeps struct {
	search  *mockSearcher
	ranker  *mockRanker
	chat    *mockChatter
	uploads *mockUploader
	library *mockLibrary
	suggest *mockSuggester
	health  *mockHealth
}

func newTestServer() (*httptest.Server, *testDeps) {
	deps := &testDeps{
		search:  &mockSearcher{},
		ranker:  &mockRanker{},
		chat:    &mockChatter{},
		uploads: &mockUploader{},
		library: &mockLibrary{},
		suggest: &mockSuggester{},
		health:  &mockHealth{},
	}
	srv := NewServer(
		deps.search, deps.ranker, deps.chat, deps.uploads,
		deps.library, deps.suggest, deps.health, 5, 50, zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Register(r)
	return httptest.NewServer(r), deps
}

func testItem(id string) item.Item {
	it, _ := item.New(id, "Title "+id, "excerpt "+id, item.NumericScore(2.0),
		[]string{"kw"}, map[string]string{"category": document.CategoryPolicies})
	return it
}

func completedDoc() document.Document {
	return document.Reconstruct(
		"doc-1", "Admission Policy.pdf", "Admission Policy.pdf", "Full text.",
		"Covers admissions.", document.CategoryPolicies, []string{"admission"},
		"application/pdf", 100, "documents/doc-1/admission-policy.pdf",
		document.StatusCompleted, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	)
}
