package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/logger"
)

// Message intents, a closed label set.
const (
	IntentSearch    = "SEARCH"
	IntentAnalyze   = "ANALYZE"
	IntentUpload    = "UPLOAD"
	IntentReadAloud = "READ_ALOUD"
	IntentGreeting  = "GREETING"
	IntentQuestion  = "QUESTION"
)

const (
	intentMaxTokens   = 20
	intentTemperature = 0.1
	intentTopP        = 0.9
)

// classifyIntent asks the model to place the message in the closed label
// set; on any failure it falls back to the deterministic keyword classifier.
func (s *Service) classifyIntent(ctx context.Context, message string) string {
	if s.llm == nil {
		return keywordIntent(message)
	}

	prompt := fmt.Sprintf(
		"Classify this message into exactly one label: SEARCH, ANALYZE, UPLOAD, READ_ALOUD, GREETING, QUESTION. Reply with the label only.\n\nMessage: %s",
		message,
	)
	resp, err := s.llm.Complete(ctx, prompt, intentMaxTokens, intentTemperature, intentTopP)
	if err != nil {
		logger.FromContext(ctx).Debug("intent classification failed, using keyword fallback",
			zap.Error(err))
		return keywordIntent(message)
	}

	upper := strings.ToUpper(resp)
	for _, label := range []string{
		IntentReadAloud, IntentGreeting, IntentQuestion,
		IntentAnalyze, IntentUpload, IntentSearch,
	} {
		if strings.Contains(upper, label) {
			return label
		}
	}

	logger.FromContext(ctx).Debug("unrecognized intent label, using keyword fallback",
		zap.String("response", resp))
	return keywordIntent(message)
}

// keywordIntent is the deterministic classifier used when the model is
// unavailable or returns garbage.
func keywordIntent(message string) string {
	m := strings.ToLower(message)

	switch {
	case containsAny(m, "upload", "add a file", "add file", "attach"):
		return IntentUpload
	case containsAny(m, "read aloud", "out loud", "read it to me"):
		return IntentReadAloud
	case containsAny(m, "hello", "hi ", "hey", "good morning", "good afternoon", "thanks", "thank you"),
		m == "hi":
		return IntentGreeting
	case containsAny(m, "analyze", "analysis", "summarize", "summary"):
		return IntentAnalyze
	case containsAny(m, "find", "search", "show me", "look for", "looking for", "document about", "documents about"):
		return IntentSearch
	}
	return IntentQuestion
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
