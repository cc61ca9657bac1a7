package ingest

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// mockBlob implements BlobStore for tests.
type mockBlob struct {
	putFn    func(ctx context.Context, key, contentType string, data []byte) error
	deleteFn func(ctx context.Context, key string) error
	mu       sync.Mutex
	puts     []string
	deletes  []string
}

func (m *mockBlob) Put(ctx context.Context, key, contentType string, data []byte) error {
	m.mu.Lock()
	m.puts = append(m.puts, key)
	m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(ctx, key, contentType, data)
	}
	return nil
}

func (m *mockBlob) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.deletes = append(m.deletes, key)
	m.mu.Unlock()
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

// mockMeta implements MetadataStore for tests.
type mockMeta struct {
	putFn func(ctx context.Context, doc document.Document) error
	mu    sync.Mutex
	docs  []document.Document
}

func (m *mockMeta) Put(ctx context.Context, doc document.Document) error {
	m.mu.Lock()
	m.docs = append(m.docs, doc)
	m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(ctx, doc)
	}
	return nil
}

// mockIndex implements IndexWriter for tests.
type mockIndex struct {
	putFn func(ctx context.Context, doc document.Document) error
	mu    sync.Mutex
	docs  []document.Document
}

func (m *mockIndex) Put(ctx context.Context, doc document.Document) error {
	m.mu.Lock()
	m.docs = append(m.docs, doc)
	m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(ctx, doc)
	}
	return nil
}

// mockExtractor implements Extractor for tests.
type mockExtractor struct {
	extractFn func(ctx context.Context, contentType string, data []byte) (string, error)
}

func (m *mockExtractor) Extract(ctx context.Context, contentType string, data []byte) (string, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, contentType, data)
	}
	return string(data), nil
}

// mockCompleter implements Completer for tests.
type mockCompleter struct {
	completeFn func(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
	mu         sync.Mutex
	calls      int
}

func (m *mockCompleter) Complete(
	ctx context.Context, prompt string, maxTokens int, temperature, topP float32,
) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt, maxTokens, temperature, topP)
	}
	return "", nil
}

type testDeps struct {
	blob    *mockBlob
	meta    *mockMeta
	index   *mockIndex
	extract *mockExtractor
	llm     *mockCompleter
}

func newTestService(queueSize, workers int) (*Service, *testDeps) {
	deps := &testDeps{
		blob:    &mockBlob{},
		meta:    &mockMeta{},
		index:   &mockIndex{},
		extract: &mockExtractor{},
		llm:     &mockCompleter{},
	}
	svc := New(deps.blob, deps.meta, deps.index, deps.extract, deps.llm,
		queueSize, workers, zap.NewNop())
	return svc, deps
}
