package chat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	chatdom "github.com/shelfwise/shelfwise/internal/domain/chat"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
	"github.com/shelfwise/shelfwise/internal/logger"
	"github.com/shelfwise/shelfwise/internal/usecase/relevance"
)

const (
	searchMaxResults = 5
	maxSources       = 3

	priorResponseLimit = 500
	contentPromptLimit = 4000

	answerMaxTokens     = 1000
	answerTemperature   = 0.2
	simplifyMaxTokens   = 800
	simplifyTemperature = 0.3
	answerTopP          = 0.9

	pickMaxTokens   = 10
	pickTemperature = 0.1
	pickTopP        = 0.7

	describeMaxTokens   = 150
	describeTemperature = 0.4

	suggestMaxTokens   = 150
	suggestTemperature = 0.4
	suggestTopP        = 0.8

	noResultsMaxTokens   = 80
	noResultsTemperature = 0.5
)

const uploadGuidance = "To add a document, use the upload page or POST the file to /api/v1/documents. PDFs and plain text work best; the document is classified and searchable within a minute."

// Service is the conversational orchestrator. Every message is handled
// independently; the only cross-message state is what the caller passes in
// the conversation context.
type Service struct {
	planner  Planner
	ranker   Ranker
	resolver Resolver
	llm      Completer
}

// New creates a chat orchestrator.
func New(planner Planner, ranker Ranker, resolver Resolver, llm Completer) *Service {
	return &Service{planner: planner, ranker: ranker, resolver: resolver, llm: llm}
}

// Converse classifies the message and routes it to the matching handler.
// A message referring back to the focused document skips intent
// classification entirely. Generation failures always degrade to
// deterministic fallback text; the returned error is only for invalid input.
func (s *Service) Converse(ctx context.Context, message string, conv *chatdom.Context) (chatdom.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrInvalidInput)
	}

	if conv != nil && conv.Document != nil && IsFollowUp(message) {
		return s.handleFollowUp(ctx, message, conv), nil
	}

	switch s.classifyIntent(ctx, message) {
	case IntentSearch, IntentQuestion:
		return s.handleSearch(ctx, message), nil
	case IntentAnalyze:
		return s.handleAnalyze(ctx, conv), nil
	case IntentUpload:
		return chatdom.UploadReply{Message: uploadGuidance}, nil
	case IntentReadAloud:
		return chatdom.GeneralReply{
			Message: "Search for a document first, then ask me to read it aloud.",
		}, nil
	default: // GREETING
		return s.handleGreeting(ctx, message), nil
	}
}

// handleFollowUp answers a question bound to the focused document. Content
// that looks like a cut-off excerpt is refreshed through the resolver before
// the prompt is built.
func (s *Service) handleFollowUp(ctx context.Context, message string, conv *chatdom.Context) chatdom.Reply {
	log := logger.FromContext(ctx)

	doc := conv.Document
	subtype := FollowUpSubtype(message)
	content := doc.Content

	if looksTruncated(content) && doc.ID != "" && s.resolver != nil {
		full, err := s.resolver.Resolve(ctx, doc.ID)
		if err != nil {
			log.Debug("content refetch failed, answering from excerpt",
				zap.String("document_id", doc.ID), zap.Error(err))
		} else if len(full.Content()) > len(content) {
			content = full.Content()
		}
	}

	if content == "" {
		return chatdom.ErrorReply{
			Message: "I don't have the content of that document anymore. Search for it again and retry.",
		}
	}

	prompt := buildFollowUpPrompt(subtype, conv.LastResponse, content, message)

	maxTokens, temperature := answerMaxTokens, float32(answerTemperature)
	if subtype == SubtypeSimplify {
		maxTokens, temperature = simplifyMaxTokens, simplifyTemperature
	}

	var answer string
	var err error
	if s.llm != nil {
		answer, err = s.llm.Complete(ctx, prompt, maxTokens, temperature, answerTopP)
	}
	if err != nil || strings.TrimSpace(answer) == "" {
		log.Debug("follow-up generation failed, using fallback", zap.Error(err))
		answer = fmt.Sprintf("Here is the relevant part of %q:\n\n%s", doc.Title, truncate(content, 300))
	}

	if subtype == SubtypeReadAloud {
		return chatdom.ReadAloudReply{
			Message:  answer,
			Document: &chatdom.DocumentView{ID: doc.ID, Title: doc.Title},
		}
	}
	return chatdom.GeneralReply{Message: answer}
}

func buildFollowUpPrompt(subtype, lastResponse, content, question string) string {
	var instruction string
	switch subtype {
	case SubtypeReadAloud:
		instruction = "Rewrite the document content below as smooth spoken text suitable for reading aloud."
	case SubtypeSimplify:
		instruction = "Explain the document below in plain, simple language."
	case SubtypeElaborate:
		instruction = "Give a detailed walkthrough of the document below, expanding on its key points."
	case SubtypeSpecific:
		instruction = "Answer the question using only the document content below."
	default:
		instruction = "Answer helpfully using the document content below."
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\n")
	if lastResponse != "" {
		fmt.Fprintf(&b, "Previous answer: %s\n\n", truncate(lastResponse, priorResponseLimit))
	}
	fmt.Fprintf(&b, "Document content:\n%s\n\n", truncate(content, contentPromptLimit))
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

// handleSearch runs the cascade, ranks, and presents a single best match
// with follow-up suggestions.
func (s *Service) handleSearch(ctx context.Context, message string) chatdom.Reply {
	log := logger.FromContext(ctx)

	items, err := s.planner.Search(ctx, message, "", searchMaxResults)
	if err != nil {
		log.Error("search cascade failed", zap.String("message", message), zap.Error(err))
		return chatdom.ErrorReply{
			Message: "Something went wrong while searching. Please try again.",
		}
	}

	results := s.ranker.RankAndFilter(ctx, message, items, 0)
	if len(results) == 0 {
		return chatdom.SearchReply{Message: s.noResultsMessage(ctx, message)}
	}

	best := s.pickBest(ctx, message, results)
	description := s.describe(ctx, message, best)

	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\n\nYou can ask:\n")
	for _, q := range s.suggestQuestions(ctx, message, best) {
		fmt.Fprintf(&b, "- %s\n", q)
	}

	sources := make([]string, 0, maxSources)
	for i := range results {
		if i == maxSources {
			break
		}
		sources = append(sources, results[i].Item().Title())
	}

	return chatdom.SearchReply{
		Message:  strings.TrimRight(b.String(), "\n"),
		Document: viewOf(best),
		Sources:  sources,
	}
}

// pickBest selects one result. With a single hit there is nothing to pick;
// otherwise the model chooses among the top five, and any failure falls back
// to the top-ranked result.
func (s *Service) pickBest(ctx context.Context, message string, results []ranked.Result) *ranked.Result {
	if len(results) == 1 || s.llm == nil {
		return &results[0]
	}

	candidates := results
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Which document best answers %q? Reply with the number only.\n\n", message)
	for i := range candidates {
		it := candidates[i].Item()
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, it.Title(), it.Category())
	}

	resp, err := s.llm.Complete(ctx, b.String(), pickMaxTokens, pickTemperature, pickTopP)
	if err != nil {
		return &results[0]
	}
	for _, tok := range strings.Fields(resp) {
		idx, err := strconv.Atoi(strings.Trim(tok, ".,"))
		if err == nil && idx >= 1 && idx <= len(candidates) {
			return &candidates[idx-1]
		}
	}
	return &results[0]
}

// suggestQuestions proposes three follow-up questions grounded in the best
// match. Generation failures fall back to the fixed templates, which
// IsFollowUp always recognizes.
func (s *Service) suggestQuestions(ctx context.Context, message string, r *ranked.Result) []string {
	if s.llm == nil {
		return fallbackSuggestions()
	}

	it := r.Item()
	prompt := fmt.Sprintf(
		"Suggest 3 short questions that this document can answer directly.\n\nDocument: %s\nPreview: %s\nOriginal query: %s\n\nEach question must mention the document (for example \"What does the document say about ...?\") and differ from the original query. One question per line, nothing else.",
		it.Title(), truncate(it.Excerpt(), 300), message,
	)

	resp, err := s.llm.Complete(ctx, prompt, suggestMaxTokens, suggestTemperature, suggestTopP)
	if err != nil {
		logger.FromContext(ctx).Debug("suggestion generation failed, using templates", zap.Error(err))
		return fallbackSuggestions()
	}

	questions := parseSuggestions(resp)
	if len(questions) == 0 {
		return fallbackSuggestions()
	}
	for len(questions) < 3 {
		questions = append(questions, fallbackSuggestions()[len(questions)])
	}
	return questions
}

var suggestionMarker = regexp.MustCompile(`^[\s\-*•\d.)]+`)

// parseSuggestions extracts up to three question lines from a model reply,
// stripping list markers. Lines without a question mark are noise.
func parseSuggestions(resp string) []string {
	var out []string
	for _, line := range strings.Split(resp, "\n") {
		q := strings.TrimSpace(suggestionMarker.ReplaceAllString(line, ""))
		if q == "" || !strings.Contains(q, "?") {
			continue
		}
		out = append(out, q)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func fallbackSuggestions() []string {
	out := make([]string, 0, 3)
	for _, q := range suggestedQuestionTemplates[:3] {
		out = append(out, strings.ToUpper(q[:1])+q[1:]+"?")
	}
	return out
}

func (s *Service) describe(ctx context.Context, message string, r *ranked.Result) string {
	it := r.Item()
	fallback := fmt.Sprintf("I found %q, a %s document that should answer your question.",
		it.Title(), strings.ReplaceAll(it.Category(), "_", " "))

	if s.llm == nil {
		return fallback
	}
	prompt := fmt.Sprintf(
		"The user asked: %s\nBest match: %s (category %s)\nExcerpt: %s\n\nWrite one or two sentences telling the user why this document answers their request.",
		message, it.Title(), it.Category(), truncate(it.Excerpt(), 300),
	)
	resp, err := s.llm.Complete(ctx, prompt, describeMaxTokens, describeTemperature, answerTopP)
	if err != nil || strings.TrimSpace(resp) == "" {
		return fallback
	}
	return strings.TrimSpace(resp)
}

func (s *Service) noResultsMessage(ctx context.Context, message string) string {
	fallback := fmt.Sprintf(
		"I couldn't find any documents matching %q. Try broader terms or one of the category names.",
		message,
	)
	if s.llm == nil {
		return fallback
	}
	prompt := fmt.Sprintf(
		"A document search for %q found nothing. Write one short, friendly reply suggesting how to rephrase.",
		message,
	)
	resp, err := s.llm.Complete(ctx, prompt, noResultsMaxTokens, noResultsTemperature, answerTopP)
	if err != nil || strings.TrimSpace(resp) == "" {
		return fallback
	}
	return strings.TrimSpace(resp)
}

// handleAnalyze summarizes the focused document, or asks for one.
func (s *Service) handleAnalyze(ctx context.Context, conv *chatdom.Context) chatdom.Reply {
	if conv == nil || conv.Document == nil || conv.Document.Content == "" {
		return chatdom.AnalysisReply{
			Message: "Tell me which document to analyze: search for it first, then ask again.",
		}
	}

	doc := conv.Document
	fallback := fmt.Sprintf("Here's what I have about %q:\n\n%s", doc.Title, truncate(doc.Content, 300))

	prompt := fmt.Sprintf(
		"Summarize the key points of this document in a short paragraph.\n\nTitle: %s\n\n%s",
		doc.Title, truncate(doc.Content, contentPromptLimit),
	)
	var resp string
	var err error
	if s.llm != nil {
		resp, err = s.llm.Complete(ctx, prompt, simplifyMaxTokens, simplifyTemperature, answerTopP)
	}
	if err != nil || strings.TrimSpace(resp) == "" {
		logger.FromContext(ctx).Debug("analysis generation failed, using fallback", zap.Error(err))
		return chatdom.AnalysisReply{Message: fallback}
	}
	return chatdom.AnalysisReply{Message: strings.TrimSpace(resp)}
}

func (s *Service) handleGreeting(ctx context.Context, message string) chatdom.Reply {
	fallback := "Hi! I can search your documents, analyze them, and answer questions about them. What are you looking for?"
	if s.llm == nil {
		return chatdom.GeneralReply{Message: fallback}
	}
	prompt := fmt.Sprintf(
		"You are a document assistant. Reply briefly and warmly to: %s",
		message,
	)
	resp, err := s.llm.Complete(ctx, prompt, noResultsMaxTokens, noResultsTemperature, answerTopP)
	if err != nil || strings.TrimSpace(resp) == "" {
		return chatdom.GeneralReply{Message: fallback}
	}
	return chatdom.GeneralReply{Message: strings.TrimSpace(resp)}
}

func viewOf(r *ranked.Result) *chatdom.DocumentView {
	it := r.Item()
	return &chatdom.DocumentView{
		ID:                it.ID(),
		Title:             it.Title(),
		Excerpt:           it.Excerpt(),
		Category:          it.Category(),
		Keywords:          it.Keywords(),
		Score:             relevance.ConvertScore(it.Score()),
		SimilarityPercent: r.SimilarityPercent(),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
