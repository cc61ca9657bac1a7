package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	chatdom "github.com/shelfwise/shelfwise/internal/domain/chat"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/job"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
	healthuc "github.com/shelfwise/shelfwise/internal/usecase/health"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeDocumentNotFound = "document_not_found"
	codeJobNotFound      = "job_not_found"
	codeQueueFull        = "queue_full"
	codeUpstreamError    = "upstream_error"
	codeInternalError    = "internal_error"
	codeUnauthorized     = "unauthorized"
)

const maxUploadBytes = 32 << 20

// Searcher runs the escalating search cascade.
type Searcher interface {
	Search(ctx context.Context, query, category string, maxResults int) ([]item.Item, error)
}

// Ranker scores and orders raw index hits.
type Ranker interface {
	RankAndFilter(ctx context.Context, query string, items []item.Item, minSimilarity float64) []ranked.Result
}

// Chatter is the conversational orchestrator.
type Chatter interface {
	Converse(ctx context.Context, message string, conv *chatdom.Context) (chatdom.Reply, error)
}

// Uploader accepts files and reports job progress.
type Uploader interface {
	Submit(ctx context.Context, filename, contentType string, data []byte) (jobID, documentID string, err error)
	Job(jobID string) (job.Job, error)
}

// Library is the document surface.
type Library interface {
	Get(ctx context.Context, documentID string) (document.Document, error)
	List(ctx context.Context, category string, limit int) ([]document.Document, error)
	DownloadURL(ctx context.Context, documentID string) (string, error)
	Delete(ctx context.Context, documentID string) error
}

// Suggester produces example queries.
type Suggester interface {
	Generate(ctx context.Context, conversationContext string, limit int) ([]string, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API.
type Server struct {
	search     Searcher
	ranker     Ranker
	chat       Chatter
	uploads    Uploader
	library    Library
	suggest    Suggester
	health     HealthChecker
	logger     *zap.Logger
	defaultMax int
	maxPage    int
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	ranker Ranker,
	chat Chatter,
	uploads Uploader,
	library Library,
	suggest Suggester,
	health HealthChecker,
	defaultMax, maxPage int,
	logger *zap.Logger,
) *Server {
	if defaultMax <= 0 {
		defaultMax = 5
	}
	if maxPage <= 0 {
		maxPage = 50
	}
	return &Server{
		search:     search,
		ranker:     ranker,
		chat:       chat,
		uploads:    uploads,
		library:    library,
		suggest:    suggest,
		health:     health,
		logger:     logger,
		defaultMax: defaultMax,
		maxPage:    maxPage,
	}
}

// Register mounts all routes on the router. Middleware is assembled by the
// caller so health and metrics stay outside auth.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/chat", s.handleChat)
		r.Post("/documents", s.handleUpload)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Get("/documents/{id}/url", s.handleDownloadURL)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/suggestions", s.handleSuggestions)
	})
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	if req.Category != "" && !document.ValidCategory(req.Category) {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unknown category "+strconv.Quote(req.Category))
		return
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.defaultMax
	}
	if maxResults > s.maxPage {
		maxResults = s.maxPage
	}

	items, err := s.search.Search(r.Context(), req.Query, req.Category, maxResults)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := s.ranker.RankAndFilter(r.Context(), req.Query, items, req.MinSimilarity)
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	out := make([]searchResultItem, len(results))
	for i := range results {
		out[i] = searchResultToDTO(&results[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: out, Total: len(out)})
}

// handleChat handles POST /api/v1/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply, err := s.chat.Converse(r.Context(), req.Message, req.Context)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatReplyToDTO(reply))
}

// handleUpload handles POST /api/v1/documents (multipart).
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid multipart body: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "read upload: "+err.Error())
		return
	}
	if len(data) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, codeValidationFailed, "file too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	jobID, documentID, err := s.uploads.Submit(r.Context(), header.Filename, contentType, data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/jobs/"+jobID)
	writeJSON(w, http.StatusAccepted, uploadResponse{
		JobID:      jobID,
		DocumentID: documentID,
		Status:     job.StatusPending,
	})
}

// handleListDocuments handles GET /api/v1/documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	if limit == 0 || limit > s.maxPage {
		limit = s.maxPage
	}

	docs, err := s.library.List(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]documentResponse, len(docs))
	for i := range docs {
		out[i] = documentToDTO(&docs[i])
	}
	writeJSON(w, http.StatusOK, documentListResponse{Documents: out, Total: len(out)})
}

// handleGetDocument handles GET /api/v1/documents/{id}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.library.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToDTO(&doc))
}

// handleDownloadURL handles GET /api/v1/documents/{id}/url.
func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.library.DownloadURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadURLResponse{URL: url})
}

// handleDeleteDocument handles DELETE /api/v1/documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetJob handles GET /api/v1/jobs/{id}.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.uploads.Job(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// handleSuggestions handles GET /api/v1/suggestions.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	suggestions, err := s.suggest.Generate(r.Context(), r.URL.Query().Get("context"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	body := map[string]any{
		"status":     report.Status,
		"uptime_sec": int64(report.Uptime.Seconds()),
		"checks":     report.Checks,
	}
	if report.Version != "" {
		body["version"] = report.Version
	}
	writeJSON(w, httpStatus, body)
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrJobNotFound,
		domain.ErrInvalidInput,
		domain.ErrQueueFull,
		domain.ErrUnavailable,
		domain.ErrMalformedModelOutput,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	case errors.Is(err, domain.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, codeDocumentNotFound, msg)
	case errors.Is(err, domain.ErrJobNotFound):
		writeError(w, http.StatusNotFound, codeJobNotFound, msg)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, msg)
	case errors.Is(err, domain.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, codeQueueFull, msg)
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrMalformedModelOutput):
		writeError(w, http.StatusBadGateway, codeUpstreamError, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
