package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

func TestParseClassification_BareJSON(t *testing.T) {
	got, err := parseClassification(
		`{"summary": "s", "keywords": ["a"], "category": "training_knowledge", "confidence": 0.8}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != document.CategoryTraining || got.Confidence != 0.8 {
		t.Errorf("unexpected verdict: %+v", got)
	}
}

func TestParseClassification_EmbeddedJSON(t *testing.T) {
	raw := "Sure! Here is the classification:\n```json\n" +
		`{"summary": "s", "keywords": [], "category": "others", "confidence": 0.5}` +
		"\n```\nLet me know if you need more."
	got, err := parseClassification(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != document.CategoryOthers {
		t.Errorf("category = %q, want others", got.Category)
	}
}

func TestParseClassification_UnknownCategoryLandsInOthers(t *testing.T) {
	got, err := parseClassification(`{"summary": "s", "category": "finance", "confidence": 0.9}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != document.CategoryOthers {
		t.Errorf("category = %q, want others", got.Category)
	}
}

func TestParseClassification_OutOfRangeConfidenceReset(t *testing.T) {
	got, err := parseClassification(`{"category": "others", "confidence": 7}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Confidence != defaultFallbackConfidence {
		t.Errorf("confidence = %v, want %v", got.Confidence, defaultFallbackConfidence)
	}
}

func TestParseClassification_GarbageIsError(t *testing.T) {
	if _, err := parseClassification("I cannot classify this."); err == nil {
		t.Error("expected an error for output without JSON")
	}
}

func TestFilenameFallback(t *testing.T) {
	cases := map[string]string{
		"leave_policy.pdf":      document.CategoryPolicies,
		"pump maintenance.docx": document.CategoryMaintenance,
		"onboarding guide.txt":  document.CategoryTraining,
		"production plan.txt":   document.CategoryOperations,
		"random.bin":            document.CategoryOthers,
	}
	for filename, want := range cases {
		got := filenameFallback(filename)
		if got.Category != want {
			t.Errorf("filenameFallback(%q).Category = %q, want %q", filename, got.Category, want)
		}
	}

	matched := filenameFallback("leave_policy.pdf")
	if matched.Confidence != keywordFallbackConfidence {
		t.Errorf("matched confidence = %v, want %v", matched.Confidence, keywordFallbackConfidence)
	}
	unmatched := filenameFallback("random.bin")
	if unmatched.Confidence != defaultFallbackConfidence {
		t.Errorf("unmatched confidence = %v, want %v", unmatched.Confidence, defaultFallbackConfidence)
	}
}

func TestClassify_ModelFailureFallsBackToFilename(t *testing.T) {
	svc, deps := newTestService(4, 1)
	deps.llm.completeFn = func(context.Context, string, int, float32, float32) (string, error) {
		return "", errors.New("model down")
	}

	got := svc.classify(context.Background(), "safety_procedure.pdf", "content")
	if got.Category != document.CategoryPolicies {
		t.Errorf("category = %q, want policy fallback", got.Category)
	}
}
