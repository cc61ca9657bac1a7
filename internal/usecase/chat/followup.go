package chat

import (
	"regexp"
	"strings"
)

// Follow-up sub-types. They select the answer instruction and token budget.
const (
	SubtypeReadAloud = "read_aloud"
	SubtypeSimplify  = "simplify"
	SubtypeElaborate = "elaborate"
	SubtypeSpecific  = "specific"
	SubtypeGeneral   = "general"
)

var followUpKeywords = []string{
	"analyze", "summarize", "summary", "explain", "simplify",
	"elaborate", "clarify", "read aloud", "tell me more",
}

var followUpPhrases = []string{
	"more detail", "more details", "what about", "how about",
	"break it down", "in simple terms", "key points", "main points",
	"go deeper", "can you expand",
}

// Messages matching the suggestion templates the search branch appends to
// its answers are always follow-ups.
var suggestedQuestionTemplates = []string{
	"what is this document about",
	"summarize this document",
	"read this document aloud",
	"explain the key points",
	"what are the main points",
}

var referencePronouns = regexp.MustCompile(`\b(it|this|that|these|those|them)\b`)

var readRequest = regexp.MustCompile(`^\s*(please\s+)?read(\s+(it|this|that|aloud|out\s+loud))*\s*\.?\s*$`)

// IsFollowUp reports whether a message refers back to a previously shown
// document rather than starting a new search. Callers must additionally
// check that the conversation actually carries a focused document.
func IsFollowUp(message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return false
	}

	for _, t := range suggestedQuestionTemplates {
		if strings.Contains(m, t) {
			return true
		}
	}
	for _, k := range followUpKeywords {
		if strings.Contains(m, k) {
			return true
		}
	}
	for _, p := range followUpPhrases {
		if strings.Contains(m, p) {
			return true
		}
	}
	if referencePronouns.MatchString(m) {
		return true
	}
	return readRequest.MatchString(m)
}

// FollowUpSubtype classifies a follow-up message by keyword.
func FollowUpSubtype(message string) string {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "read aloud"), strings.Contains(m, "out loud"),
		readRequest.MatchString(m):
		return SubtypeReadAloud
	case strings.Contains(m, "simplify"), strings.Contains(m, "simple terms"),
		strings.Contains(m, "easier"), strings.Contains(m, "plain language"):
		return SubtypeSimplify
	case strings.Contains(m, "elaborate"), strings.Contains(m, "tell me more"),
		strings.Contains(m, "more detail"), strings.Contains(m, "expand"),
		strings.Contains(m, "go deeper"):
		return SubtypeElaborate
	case strings.Contains(m, "what"), strings.Contains(m, "when"),
		strings.Contains(m, "where"), strings.Contains(m, "who"),
		strings.Contains(m, "how"), strings.Contains(m, "why"),
		strings.Contains(m, "?"):
		return SubtypeSpecific
	}
	return SubtypeGeneral
}

const truncationLengthCeiling = 2000

// looksTruncated reports whether the supplied content is probably an excerpt
// rather than the full document text.
func looksTruncated(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	return len(trimmed) < truncationLengthCeiling && strings.HasSuffix(trimmed, "...")
}
