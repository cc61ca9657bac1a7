package suggest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/insight"
	"github.com/shelfwise/shelfwise/internal/logger"
	"github.com/shelfwise/shelfwise/internal/metrics"
)

const (
	defaultLimit = 5

	suggestMaxTokens   = 200
	suggestTemperature = 0.7
	suggestTopP        = 0.9
)

// defaultSuggestions covers the insights-unavailable path. It is returned
// as-is and never cached, so suggestions recover as soon as the store does.
var defaultSuggestions = []string{
	"Find the admission policy",
	"Show me maintenance manuals",
	"What training documents do we have?",
}

var categoryPhrases = map[string]string{
	document.CategoryPolicies:    "What policies do we have?",
	document.CategoryOperations:  "Show me operations procedures",
	document.CategoryMaintenance: "Find maintenance manuals",
	document.CategoryTraining:    "What training materials are available?",
	document.CategoryOthers:      "Show me recently added documents",
}

var quotedLine = regexp.MustCompile(`"([^"]+)"`)

// Service produces example queries grounded in the current collection.
type Service struct {
	store MetadataStore
	cache Cache
	llm   Completer

	suggestionTTL time.Duration
	insightsTTL   time.Duration
}

func New(store MetadataStore, cache Cache, llm Completer, suggestionTTL, insightsTTL time.Duration) *Service {
	return &Service{
		store:         store,
		cache:         cache,
		llm:           llm,
		suggestionTTL: suggestionTTL,
		insightsTTL:   insightsTTL,
	}
}

// Generate returns up to limit suggested queries. Results are cached per
// collection shape, so repeated calls against an unchanged collection are
// identical and cost no model tokens.
func (s *Service) Generate(ctx context.Context, conversationContext string, limit int) ([]string, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 {
		limit = defaultLimit
	}

	stats, err := s.insights(ctx)
	if err != nil {
		log.Warn("insights unavailable, using default suggestions", zap.Error(err))
		return append([]string(nil), defaultSuggestions...), nil
	}

	key := cacheKey(stats.CategoryCounts(), conversationContext, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached []string
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
				metrics.SuggestionCacheTotal.WithLabelValues("hit").Inc()
				return cached, nil
			}
		}
		metrics.SuggestionCacheTotal.WithLabelValues("miss").Inc()
	}

	suggestions := s.fromModel(ctx, stats, conversationContext, limit)
	suggestions = pad(suggestions, stats, limit)

	if s.cache != nil && len(suggestions) > 0 {
		if data, err := json.Marshal(suggestions); err == nil {
			if err := s.cache.Set(ctx, key, data, s.suggestionTTL); err != nil {
				log.Warn("suggestion cache write failed", zap.Error(err))
			}
		}
	}
	return suggestions, nil
}

func (s *Service) fromModel(ctx context.Context, stats insight.Insights, conversationContext string, limit int) []string {
	if s.llm == nil {
		return nil
	}
	raw, err := s.llm.Complete(ctx, buildPrompt(stats, conversationContext, limit),
		suggestMaxTokens, suggestTemperature, suggestTopP)
	if err != nil {
		logger.FromContext(ctx).Warn("suggestion generation failed", zap.Error(err))
		return nil
	}
	return parseQuoted(raw, limit)
}

func buildPrompt(stats insight.Insights, conversationContext string, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You help users explore a document library of %d documents.\n", stats.TotalDocuments)

	categories := make([]string, 0, len(stats.Categories))
	for name := range stats.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		stat := stats.Categories[name]
		fmt.Fprintf(&b, "Category %s: %d documents", name, stat.Count)
		if len(stat.SampleTitles) > 0 {
			fmt.Fprintf(&b, " (e.g. %s)", strings.Join(stat.SampleTitles, "; "))
		}
		b.WriteString("\n")
	}
	if len(stats.CommonKeywords) > 0 {
		fmt.Fprintf(&b, "Common topics: %s\n", strings.Join(stats.CommonKeywords, ", "))
	}
	if len(stats.DocumentTypes) > 0 {
		fmt.Fprintf(&b, "Document types: %s\n", strings.Join(stats.DocumentTypes, ", "))
	}
	if conversationContext != "" {
		fmt.Fprintf(&b, "Recent conversation: %s\n", conversationContext)
	}
	fmt.Fprintf(&b,
		"\nSuggest %d diverse example queries a user could ask about this library. "+
			"Return each query on its own line, wrapped in double quotes.", limit)
	return b.String()
}

// parseQuoted extracts quoted suggestions from model output, dropping
// duplicates and blanks.
func parseQuoted(raw string, limit int) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, match := range quotedLine.FindAllStringSubmatch(raw, -1) {
		text := strings.TrimSpace(match[1])
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, text)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// pad tops up short model output with deterministic phrases derived from
// the collection, so callers always get limit suggestions when possible.
func pad(suggestions []string, stats insight.Insights, limit int) []string {
	seen := map[string]struct{}{}
	for _, s := range suggestions {
		seen[strings.ToLower(s)] = struct{}{}
	}
	add := func(text string) {
		if len(suggestions) >= limit {
			return
		}
		if _, dup := seen[strings.ToLower(text)]; dup {
			return
		}
		seen[strings.ToLower(text)] = struct{}{}
		suggestions = append(suggestions, text)
	}

	categories := make([]string, 0, len(stats.Categories))
	for name := range stats.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		if phrase, ok := categoryPhrases[name]; ok {
			add(phrase)
		}
	}
	for _, kw := range stats.CommonKeywords {
		add(fmt.Sprintf("Find documents about %s", kw))
	}
	for _, fallback := range defaultSuggestions {
		add(fallback)
	}
	return suggestions
}

// cacheKey fingerprints the collection shape plus the request, so a changed
// collection naturally invalidates old entries.
func cacheKey(counts map[string]int, conversationContext string, limit int) string {
	payload, _ := json.Marshal(struct {
		Counts  map[string]int `json:"counts"`
		Context string         `json:"context"`
		Limit   int            `json:"limit"`
	}{Counts: counts, Context: conversationContext, Limit: limit})
	sum := md5.Sum(payload)
	return "suggestions:" + hex.EncodeToString(sum[:])
}
