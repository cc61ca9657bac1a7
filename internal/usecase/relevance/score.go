package relevance

import (
	"strings"

	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// The index reports confidence either as a categorical label or a raw number.
// Three label scales are in use: filtering, presentation, and ranking each map
// the labels differently. Numeric scores are clamped to [0,1] on every scale.
var (
	filterScale = map[string]float64{
		"VERY_HIGH": 0.95,
		"HIGH":      0.85,
		"MEDIUM":    0.75,
		"LOW":       0.65,
	}

	convertScale = map[string]float64{
		"VERY_HIGH": 0.95,
		"HIGH":      0.85,
		"MEDIUM":    0.65,
		"LOW":       0.45,
	}

	rankScale = map[string]float64{
		"VERY_HIGH": 1.0,
		"HIGH":      0.8,
		"MEDIUM":    0.6,
		"LOW":       0.4,
	}
)

const unknownScore = 0.5

// FilterScore normalizes a confidence for similarity filtering.
func FilterScore(s item.Score) float64 { return normalizeWith(filterScale, s) }

// ConvertScore normalizes a confidence for presentation.
func ConvertScore(s item.Score) float64 { return normalizeWith(convertScale, s) }

// RankScore normalizes a confidence for relevance ranking.
func RankScore(s item.Score) float64 { return normalizeWith(rankScale, s) }

func normalizeWith(scale map[string]float64, s item.Score) float64 {
	if v, ok := s.Value(); ok {
		return clamp01(v)
	}
	label, _ := s.Label()
	if v, ok := scale[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return v
	}
	return unknownScore
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TermOverlapBoost adds +0.2 when any query term appears in the title terms
// and +0.1 when any appears in the excerpt terms. The two checks are
// independent and additive.
func TermOverlapBoost(query, title, excerpt string) float64 {
	queryTerms := termSet(query)
	if len(queryTerms) == 0 {
		return 0
	}

	var boost float64
	if anyOverlap(queryTerms, termSet(title)) {
		boost += 0.2
	}
	if anyOverlap(queryTerms, termSet(excerpt)) {
		boost += 0.1
	}
	return boost
}

func termSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func anyOverlap(a, b map[string]struct{}) bool {
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}
