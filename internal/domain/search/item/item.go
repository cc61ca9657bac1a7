package item

// Score is a confidence value as reported by the index. Depending on the
// backend it is either a categorical label (VERY_HIGH..LOW) or a raw number;
// callers must normalize before comparing.
type Score struct {
	label   string
	value   float64
	numeric bool
}

// LabelScore creates a categorical score.
func LabelScore(label string) Score {
	return Score{label: label}
}

// NumericScore creates a numeric score.
func NumericScore(v float64) Score {
	return Score{value: v, numeric: true}
}

// Label returns the categorical label and whether the score is categorical.
func (s Score) Label() (string, bool) { return s.label, !s.numeric }

// Value returns the numeric value and whether the score is numeric.
func (s Score) Value() (float64, bool) { return s.value, s.numeric }

// Item is a single candidate document surfaced by the index.
// The id format is not uniform: it may be a storage URI, a UUID, or an
// index-assigned key.
type Item struct {
	id         string
	title      string
	excerpt    string
	score      Score
	keywords   []string
	attributes map[string]string
}

// New creates an item. Items without an id are invalid and must never enter
// ranking, so an empty id is rejected here.
func New(id, title, excerpt string, score Score, keywords []string, attributes map[string]string) (Item, bool) {
	if id == "" {
		return Item{}, false
	}
	return Item{
		id: id, title: title, excerpt: excerpt, score: score,
		keywords: keywords, attributes: attributes,
	}, true
}

// ID returns the opaque index key.
func (i *Item) ID() string { return i.id }

// Title returns the document title.
func (i *Item) Title() string { return i.title }

// Excerpt returns the truncated body text.
func (i *Item) Excerpt() string { return i.excerpt }

// Score returns the index-reported confidence.
func (i *Item) Score() Score { return i.score }

// Keywords returns the indexed keyword list.
func (i *Item) Keywords() []string { return i.keywords }

// Attributes returns the open-ended attribute map (category, storage key,
// file size, file type, upload date, status).
func (i *Item) Attributes() map[string]string { return i.attributes }

// Attribute returns a single attribute value, empty when absent.
func (i *Item) Attribute(key string) string {
	if i.attributes == nil {
		return ""
	}
	return i.attributes[key]
}

// Category returns the category attribute.
func (i *Item) Category() string { return i.Attribute("category") }
