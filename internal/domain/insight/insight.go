package insight

// CategoryStat aggregates one category of the collection.
type CategoryStat struct {
	Count        int      `json:"count"`
	SampleTitles []string `json:"sample_titles"`
	Keywords     []string `json:"keywords"`
}

// Insights is the cached aggregate view of the document collection that
// grounds suggestion generation. It is replaced whole on recompute, never
// mutated in place.
type Insights struct {
	TotalDocuments int                     `json:"total_documents"`
	Categories     map[string]CategoryStat `json:"categories"`
	CommonKeywords []string                `json:"common_keywords"`
	DocumentTypes  []string                `json:"document_types"`
}

// CategoryCounts returns category name to count, for cache keying.
func (i *Insights) CategoryCounts() map[string]int {
	counts := make(map[string]int, len(i.Categories))
	for name, stat := range i.Categories {
		counts[name] = stat.Count
	}
	return counts
}
