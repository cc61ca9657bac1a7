package ranked

import (
	"math"

	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

// Result is a search item augmented with a derived relevance score in [0,1].
type Result struct {
	item      item.Item
	relevance float64
}

// New creates a ranked result, clamping relevance to [0,1].
func New(it item.Item, relevance float64) Result {
	if relevance < 0 {
		relevance = 0
	}
	if relevance > 1 {
		relevance = 1
	}
	return Result{item: it, relevance: relevance}
}

// Item returns the underlying search item.
func (r *Result) Item() *item.Item { return &r.item }

// Relevance returns the normalized relevance score.
func (r *Result) Relevance() float64 { return r.relevance }

// SimilarityPercent returns relevance as a percentage rounded to one decimal.
func (r *Result) SimilarityPercent() float64 {
	return math.Round(r.relevance*1000) / 10
}
