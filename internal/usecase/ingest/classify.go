package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

const (
	classifyMaxTokens   = 300
	classifyTemperature = 0.2
	classifyTopP        = 0.9
	classifyContentCap  = 3000

	keywordFallbackConfidence = 0.6
	defaultFallbackConfidence = 0.5
)

// classification is the model's verdict on an uploaded document.
type classification struct {
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
}

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// classify asks the model to categorize the document, falling back to
// filename keywords when the model is unavailable or returns garbage.
func (s *Service) classify(ctx context.Context, filename, content string) classification {
	if s.llm == nil {
		return filenameFallback(filename)
	}

	raw, err := s.llm.Complete(ctx, buildClassifyPrompt(filename, content),
		classifyMaxTokens, classifyTemperature, classifyTopP)
	if err != nil {
		s.log.Warn("classification request failed, falling back to filename",
			zap.String("filename", filename), zap.Error(err))
		return filenameFallback(filename)
	}

	verdict, err := parseClassification(raw)
	if err != nil {
		s.log.Warn("classification output unparseable, falling back to filename",
			zap.String("filename", filename), zap.Error(err))
		return filenameFallback(filename)
	}
	return verdict
}

func buildClassifyPrompt(filename, content string) string {
	if len(content) > classifyContentCap {
		content = content[:classifyContentCap]
	}
	return fmt.Sprintf(`Classify this document into exactly one category:
%s

Filename: %s
Content:
%s

Respond with only a JSON object:
{"summary": "<2-3 sentence summary>", "keywords": ["<up to 5 keywords>"], "category": "<one category>", "confidence": <0.0-1.0>}`,
		strings.Join(document.Categories(), ", "), filename, content)
}

// parseClassification accepts either a bare JSON object or one embedded in
// surrounding prose.
func parseClassification(raw string) (classification, error) {
	var verdict classification
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		block := jsonBlock.FindString(raw)
		if block == "" {
			return classification{}, fmt.Errorf("no JSON object in model output")
		}
		if err := json.Unmarshal([]byte(block), &verdict); err != nil {
			return classification{}, fmt.Errorf("decode classification: %w", err)
		}
	}
	if !document.ValidCategory(verdict.Category) {
		verdict.Category = document.CategoryOthers
	}
	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		verdict.Confidence = defaultFallbackConfidence
	}
	return verdict, nil
}

var filenameCategoryHints = []struct {
	substrings []string
	category   string
}{
	{[]string{"policy", "policies", "procedure", "guideline"}, document.CategoryPolicies},
	{[]string{"operation", "production", "workflow"}, document.CategoryOperations},
	{[]string{"maintenance", "technical", "manual", "repair"}, document.CategoryMaintenance},
	{[]string{"training", "guide", "handbook", "knowledge"}, document.CategoryTraining},
}

// filenameFallback guesses a category from the filename alone.
func filenameFallback(filename string) classification {
	lf := strings.ToLower(filename)
	for _, hint := range filenameCategoryHints {
		for _, sub := range hint.substrings {
			if strings.Contains(lf, sub) {
				return classification{
					Category:   hint.category,
					Keywords:   []string{sub},
					Confidence: keywordFallbackConfidence,
				}
			}
		}
	}
	return classification{
		Category:   document.CategoryOthers,
		Confidence: defaultFallbackConfidence,
	}
}
