package relevance

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
	"github.com/shelfwise/shelfwise/internal/logger"
)

const (
	// similarityFloor is applied to every result set. The caller-supplied
	// minimum is accepted for interface compatibility but not consulted.
	similarityFloor = 0.6

	rerankCandidates = 10
	rerankTrigger    = 3

	rerankMaxTokens   = 30
	rerankTemperature = 0.1
	rerankTopP        = 0.7
)

// Service ranks and filters search results.
type Service struct {
	llm Completer
}

// New creates a ranking service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// RankAndFilter filters items below the similarity floor, orders survivors by
// relevance descending (stable), and applies an LLM-assisted re-rank when the
// set is large enough to be ambiguous. Re-rank failures keep the
// deterministic ordering; this method never returns an error.
func (s *Service) RankAndFilter(
	ctx context.Context, query string, items []item.Item, minSimilarity float64,
) []ranked.Result {
	log := logger.FromContext(ctx)

	_ = minSimilarity // the fixed floor wins; see similarityFloor

	results := make([]ranked.Result, 0, len(items))
	for i := range items {
		it := items[i]
		if it.ID() == "" {
			continue
		}
		if FilterScore(it.Score()) < similarityFloor {
			continue
		}
		relevance := RankScore(it.Score()) + TermOverlapBoost(query, it.Title(), it.Excerpt())
		results = append(results, ranked.New(it, relevance))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance() > results[j].Relevance()
	})

	if len(results) > rerankTrigger && s.llm != nil {
		results = s.rerank(ctx, query, results)
	}

	log.Debug("ranked results",
		zap.String("query", query),
		zap.Int("in", len(items)),
		zap.Int("out", len(results)),
	)
	return results
}

// rerank asks the model to reorder the top candidates. Selected indices come
// first in the model's order, unselected candidates follow in their original
// order, and the output is capped at rerankCandidates entries.
func (s *Service) rerank(ctx context.Context, query string, results []ranked.Result) []ranked.Result {
	log := logger.FromContext(ctx)

	candidates := results
	if len(candidates) > rerankCandidates {
		candidates = candidates[:rerankCandidates]
	}

	prompt := buildRerankPrompt(query, candidates)

	resp, err := s.llm.Complete(ctx, prompt, rerankMaxTokens, rerankTemperature, rerankTopP)
	if err != nil {
		log.Debug("rerank call failed, keeping deterministic order", zap.Error(err))
		return results
	}

	order := parseRankList(resp, len(candidates))
	if len(order) == 0 {
		log.Debug("rerank response unparsable, keeping deterministic order",
			zap.String("response", resp))
		return results
	}

	picked := make(map[int]bool, len(order))
	reordered := make([]ranked.Result, 0, len(candidates))
	for _, idx := range order {
		reordered = append(reordered, candidates[idx])
		picked[idx] = true
	}
	for i := range candidates {
		if !picked[i] {
			reordered = append(reordered, candidates[i])
		}
	}

	if len(reordered) > rerankCandidates {
		reordered = reordered[:rerankCandidates]
	}
	return reordered
}

func buildRerankPrompt(query string, candidates []ranked.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rank these documents by relevance to the query %q.\n\n", query)
	for i := range candidates {
		it := candidates[i].Item()
		excerpt := it.Excerpt()
		if len(excerpt) > 100 {
			excerpt = excerpt[:100]
		}
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, it.Title(), it.Category(), excerpt)
	}
	b.WriteString("\nReply with the 5-10 best document numbers in order, separated by spaces, e.g. \"3 1 7 2 9\". Numbers only.")
	return b.String()
}

// parseRankList extracts 1-based indices from a whitespace-separated reply.
// Out-of-range and duplicate indices are dropped; returns 0-based indices,
// or nil when nothing valid was found.
func parseRankList(resp string, n int) []int {
	seen := make(map[int]bool, n)
	var order []int
	for _, tok := range strings.Fields(resp) {
		tok = strings.Trim(tok, ".,;:")
		idx, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if idx < 1 || idx > n || seen[idx] {
			continue
		}
		seen[idx] = true
		order = append(order, idx-1)
	}
	return order
}
