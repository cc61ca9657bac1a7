package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/insight"
)

const (
	insightsCacheKey   = "insights:documents"
	perCategorySample  = 50
	sampleTitleCount   = 3
	commonKeywordCount = 10
)

// insights returns the cached aggregate collection view, recomputing it on
// expiry. Recompute races are tolerated: the computation is deterministic
// for a given collection state and the last write wins.
func (s *Service) insights(ctx context.Context) (insight.Insights, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, insightsCacheKey); err == nil {
			var cached insight.Insights
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	computed, err := s.computeInsights(ctx)
	if err != nil {
		return insight.Insights{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(computed); err == nil {
			_ = s.cache.Set(ctx, insightsCacheKey, data, s.insightsTTL)
		}
	}
	return computed, nil
}

func (s *Service) computeInsights(ctx context.Context) (insight.Insights, error) {
	out := insight.Insights{Categories: map[string]insight.CategoryStat{}}
	keywordFreq := map[string]int{}
	var allTitles []string

	for _, category := range document.Categories() {
		docs, err := s.store.ListByCategory(ctx, category, perCategorySample)
		if err != nil {
			return insight.Insights{}, fmt.Errorf("list %s: %w", category, err)
		}
		if len(docs) == 0 {
			continue
		}

		stat := insight.CategoryStat{Count: len(docs)}
		seen := map[string]struct{}{}
		for i := range docs {
			if len(stat.SampleTitles) < sampleTitleCount {
				stat.SampleTitles = append(stat.SampleTitles, docs[i].Title())
			}
			allTitles = append(allTitles, docs[i].Title())
			for _, kw := range docs[i].Keywords() {
				kw = strings.ToLower(strings.TrimSpace(kw))
				if kw == "" {
					continue
				}
				keywordFreq[kw]++
				if _, dup := seen[kw]; !dup {
					seen[kw] = struct{}{}
					stat.Keywords = append(stat.Keywords, kw)
				}
			}
		}
		out.Categories[category] = stat
		out.TotalDocuments += len(docs)
	}

	out.CommonKeywords = topKeywords(keywordFreq, commonKeywordCount)
	out.DocumentTypes = inferDocumentTypes(allTitles)
	return out, nil
}

// topKeywords returns the n most frequent keywords, ties broken
// alphabetically for determinism.
func topKeywords(freq map[string]int, n int) []string {
	keywords := make([]string, 0, len(freq))
	for kw := range freq {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if freq[keywords[i]] != freq[keywords[j]] {
			return freq[keywords[i]] > freq[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

var docTypeRules = []struct {
	substrings []string
	docType    string
}{
	{[]string{"policy", "procedure"}, "policies"},
	{[]string{"manual", "guide"}, "manuals"},
	{[]string{"report"}, "reports"},
	{[]string{"training"}, "training"},
	{[]string{"process"}, "processes"},
}

// inferDocumentTypes tags the collection by title substrings.
func inferDocumentTypes(titles []string) []string {
	found := map[string]bool{}
	var out []string
	for _, title := range titles {
		lt := strings.ToLower(title)
		for _, rule := range docTypeRules {
			if found[rule.docType] {
				continue
			}
			for _, sub := range rule.substrings {
				if strings.Contains(lt, sub) {
					found[rule.docType] = true
					out = append(out, rule.docType)
					break
				}
			}
		}
	}
	return out
}
