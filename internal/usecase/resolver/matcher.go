package resolver

import "strings"

// matchScore rates how well a candidate title matches an opaque identifier.
// The identifier is normalized (underscores and hyphens become spaces,
// lower-cased) before comparison. Scores:
//   - 1.0 when the normalized identifier is a substring of the title, or the
//     two collapse (spaces removed) to the same string
//   - otherwise the fraction of identifier tokens (length > 2) present in the
//     title's token set
func matchScore(id, title string) float64 {
	nid := normalizeID(id)
	ltitle := strings.ToLower(title)

	if nid == "" || ltitle == "" {
		return 0
	}
	if strings.Contains(ltitle, nid) {
		return 1.0
	}
	if collapse(ltitle) == collapse(nid) {
		return 1.0
	}

	titleTokens := tokenSet(ltitle)
	var total, hits int
	for _, tok := range strings.Fields(nid) {
		if len(tok) <= 2 {
			continue
		}
		total++
		if _, ok := titleTokens[tok]; ok {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// normalizeID lowers the identifier and turns separator characters into
// spaces.
func normalizeID(id string) string {
	r := strings.NewReplacer("_", " ", "-", " ")
	return strings.TrimSpace(strings.ToLower(r.Replace(id)))
}

func collapse(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// topicGuess derives a coarse query for the last-resort probe from
// substrings of the identifier.
func topicGuess(id string) string {
	lid := strings.ToLower(id)
	switch {
	case strings.Contains(lid, "policy") || strings.Contains(lid, "admission"):
		return "admission policy 2025"
	case strings.Contains(lid, "interview"):
		return "interview process"
	case strings.Contains(lid, "maintenance"):
		return "maintenance manual"
	}
	r := strings.NewReplacer("_", " ", "-", " ", "pdf", "")
	return strings.TrimSpace(r.Replace(lid))
}
