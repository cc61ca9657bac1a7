package suggest

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

func populatedStore() *mockStore {
	return &mockStore{
		listFn: func(_ context.Context, category string, _ int) ([]document.Document, error) {
			switch category {
			case document.CategoryPolicies:
				return []document.Document{
					testDoc("p1", "Admission Policy 2025", category, "admission", "policy"),
					testDoc("p2", "Leave Procedure", category, "leave", "policy"),
				}, nil
			case document.CategoryMaintenance:
				return []document.Document{
					testDoc("m1", "Pump Maintenance Manual", category, "pump", "maintenance"),
				}, nil
			default:
				return nil, nil
			}
		},
	}
}

func TestGenerate_SecondCallServedFromCache(t *testing.T) {
	cache := newMemCache()
	llm := &mockCompleter{
		completeFn: func(_ context.Context, _ string, _ int, _, _ float32) (string, error) {
			return "\"Find the admission policy\"\n\"Show pump maintenance steps\"\n\"What leave procedures exist?\"", nil
		},
	}
	svc := New(populatedStore(), cache, llm, 30*time.Minute, 15*time.Minute)

	first, err := svc.Generate(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.calls != 1 {
		t.Fatalf("expected one model call on the first request, got %d", llm.calls)
	}

	second, err := svc.Generate(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.calls != 1 {
		t.Errorf("expected the second request to skip the model, got %d calls", llm.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical suggestions, got %v then %v", first, second)
	}
}

func TestGenerate_ModelFailurePadsDeterministically(t *testing.T) {
	llm := &mockCompleter{
		completeFn: func(_ context.Context, _ string, _ int, _, _ float32) (string, error) {
			return "", errors.New("model down")
		},
	}
	svc := New(populatedStore(), newMemCache(), llm, time.Minute, time.Minute)

	got, err := svc.Generate(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 padded suggestions, got %v", got)
	}
	if got[0] != categoryPhrases[document.CategoryMaintenance] {
		t.Errorf("expected category phrases first, got %v", got)
	}
}

func TestGenerate_InsightsFailureReturnsDefaults(t *testing.T) {
	store := &mockStore{
		listFn: func(_ context.Context, _ string, _ int) ([]document.Document, error) {
			return nil, errors.New("store down")
		},
	}
	cache := newMemCache()
	llm := &mockCompleter{}
	svc := New(store, cache, llm, time.Minute, time.Minute)

	got, err := svc.Generate(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, defaultSuggestions) {
		t.Errorf("expected default suggestions, got %v", got)
	}
	if llm.calls != 0 {
		t.Errorf("expected no model call without insights, got %d", llm.calls)
	}
	if cache.sets != 0 {
		t.Errorf("expected no cache writes on the default path, got %d", cache.sets)
	}
}

func TestGenerate_LimitChangeMissesCache(t *testing.T) {
	cache := newMemCache()
	llm := &mockCompleter{
		completeFn: func(_ context.Context, _ string, _ int, _, _ float32) (string, error) {
			return "\"One\"\n\"Two\"\n\"Three\"\n\"Four\"", nil
		},
	}
	svc := New(populatedStore(), cache, llm, time.Minute, time.Minute)

	if _, err := svc.Generate(context.Background(), "", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Generate(context.Background(), "", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.calls != 2 {
		t.Errorf("expected a fresh model call per limit, got %d", llm.calls)
	}
}

func TestParseQuoted(t *testing.T) {
	raw := "Here you go:\n1. \"Find the policy\"\n2. \"find the policy\"\n3. \"Show manuals\"\n\"  \"\n\"Extra\""
	got := parseQuoted(raw, 3)
	want := []string{"Find the policy", "Show manuals", "Extra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseQuoted = %v, want %v", got, want)
	}
}

func TestInferDocumentTypes(t *testing.T) {
	titles := []string{
		"Admission Policy",
		"Pump Maintenance Manual",
		"Annual Report 2025",
		"Onboarding Process",
	}
	got := inferDocumentTypes(titles)
	want := []string{"policies", "manuals", "reports", "processes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("inferDocumentTypes = %v, want %v", got, want)
	}
}

func TestTopKeywords(t *testing.T) {
	freq := map[string]int{"policy": 3, "pump": 1, "leave": 2, "admission": 2}
	got := topKeywords(freq, 3)
	want := []string{"policy", "admission", "leave"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topKeywords = %v, want %v", got, want)
	}
}

func TestComputeInsights(t *testing.T) {
	svc := New(populatedStore(), nil, nil, time.Minute, time.Minute)

	got, err := svc.computeInsights(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalDocuments != 3 {
		t.Errorf("expected 3 documents, got %d", got.TotalDocuments)
	}
	stat, ok := got.Categories[document.CategoryPolicies]
	if !ok || stat.Count != 2 {
		t.Fatalf("expected 2 policy documents, got %+v", got.Categories)
	}
	if len(stat.SampleTitles) != 2 || stat.SampleTitles[0] != "Admission Policy 2025" {
		t.Errorf("unexpected sample titles: %v", stat.SampleTitles)
	}
	if _, empty := got.Categories[document.CategoryOthers]; empty {
		t.Error("expected empty categories to be omitted")
	}
}
