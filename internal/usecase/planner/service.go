package planner

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/logger"
)

const (
	defaultMaxResults = 5

	extractMaxTokens   = 50
	extractTemperature = 0.2
	extractTopP        = 0.8

	broadenMaxTokens   = 100
	broadenTemperature = 0.3
	broadenTopP        = 0.9

	// genericFallbackQuery is the last-resort query when deterministic
	// broadening leaves no usable tokens.
	genericFallbackQuery = "document process procedure"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
}

// Service turns a raw user query into search results by trying progressively
// broader query strings until one returns hits.
type Service struct {
	index Index
	llm   Completer
}

// New creates a query planner.
func New(index Index, llm Completer) *Service {
	return &Service{index: index, llm: llm}
}

// Search runs the strategy cascade lazily: extracted terms, then a broadened
// rewrite, then deterministic token broadening. The first stage with results
// wins and later stages never run. Every stage requests twice the caller's
// cap to leave the ranker room to filter. All stages empty means an empty
// slice, not an error; index transport failures do propagate.
func (s *Service) Search(
	ctx context.Context, query, category string, maxResults int,
) ([]item.Item, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	limit := 2 * maxResults

	// S1: model-extracted terms
	terms := s.extractTerms(ctx, query)
	results, err := s.index.Search(ctx, terms, category, limit)
	if err != nil {
		return nil, fmt.Errorf("term search: %w", err)
	}
	if len(results) > 0 {
		log.Debug("cascade hit on extracted terms", zap.String("terms", terms))
		return results, nil
	}

	// S2: model-broadened rewrite
	broadened := s.broadenQuery(ctx, query)
	results, err = s.index.Search(ctx, broadened, category, limit)
	if err != nil {
		return nil, fmt.Errorf("broadened search: %w", err)
	}
	if len(results) > 0 {
		log.Debug("cascade hit on broadened query", zap.String("query", broadened))
		return results, nil
	}

	// S3: deterministic broadening
	fallback := BroadenDeterministic(query)
	results, err = s.index.Search(ctx, fallback, category, limit)
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}
	if len(results) > 0 {
		log.Debug("cascade hit on deterministic fallback", zap.String("query", fallback))
		return results, nil
	}

	log.Debug("cascade exhausted with no results", zap.String("query", query))
	return []item.Item{}, nil
}

// extractTerms asks the model for 3-5 salient search terms. Failures, empty
// output, and output identical to the input all degrade to the raw query.
func (s *Service) extractTerms(ctx context.Context, query string) string {
	if s.llm == nil {
		return query
	}

	prompt := fmt.Sprintf(
		"Extract 3-5 salient search terms from this request. Reply with the terms only, separated by spaces.\n\nRequest: %s",
		query,
	)
	resp, err := s.llm.Complete(ctx, prompt, extractMaxTokens, extractTemperature, extractTopP)
	if err != nil {
		logger.FromContext(ctx).Debug("term extraction failed, using raw query", zap.Error(err))
		return query
	}

	terms := strings.TrimSpace(resp)
	if terms == "" || strings.EqualFold(terms, strings.TrimSpace(query)) {
		return query
	}
	return terms
}

// broadenQuery asks the model to rewrite the query with synonyms and likely
// document-type words. Failures degrade to the raw query.
func (s *Service) broadenQuery(ctx context.Context, query string) string {
	if s.llm == nil {
		return query
	}

	prompt := fmt.Sprintf(
		"Rewrite this search query to be broader: add synonyms and likely document-type words (policy, manual, guide, report). Reply with the rewritten query only.\n\nQuery: %s",
		query,
	)
	resp, err := s.llm.Complete(ctx, prompt, broadenMaxTokens, broadenTemperature, broadenTopP)
	if err != nil {
		logger.FromContext(ctx).Debug("query broadening failed, using raw query", zap.Error(err))
		return query
	}

	broadened := strings.TrimSpace(resp)
	if broadened == "" {
		return query
	}
	return broadened
}

// BroadenDeterministic drops stop words and short tokens, keeping at most
// three of what remains. An empty remainder yields the generic fallback.
func BroadenDeterministic(query string) string {
	var kept []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if len(tok) <= 3 {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == 3 {
			break
		}
	}
	if len(kept) == 0 {
		return genericFallbackQuery
	}
	return strings.Join(kept, " ")
}
