package shelfwise

import "time"

// SearchRequest is a full-text search query.
type SearchRequest struct {
	Query         string  `json:"query"`
	Category      string  `json:"category,omitempty"`
	MaxResults    int     `json:"max_results,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Excerpt              string   `json:"excerpt,omitempty"`
	Category             string   `json:"category,omitempty"`
	Keywords             []string `json:"keywords,omitempty"`
	SimilarityPercentage float64  `json:"similarity_percentage"`
}

// SearchResponse is the search result page.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// ChatContext carries per-message conversation state. The server keeps no
// state between calls; the client sends back what it wants remembered.
type ChatContext struct {
	Document     *ChatContextDocument `json:"document,omitempty"`
	LastResponse string               `json:"last_response,omitempty"`
}

// ChatContextDocument is the currently focused document.
type ChatContextDocument struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatRequest is one conversational message.
type ChatRequest struct {
	Message string       `json:"message"`
	Context *ChatContext `json:"context,omitempty"`
}

// ChatDocument is a document surfaced by a chat reply. Score is the server's
// normalized index confidence; SimilarityPercent is the ranked relevance.
type ChatDocument struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Excerpt           string   `json:"excerpt,omitempty"`
	Category          string   `json:"category,omitempty"`
	Keywords          []string `json:"keywords,omitempty"`
	Score             float64  `json:"score,omitempty"`
	SimilarityPercent float64  `json:"similarity_percentage,omitempty"`
}

// ChatResponse is the orchestrator's reply. Type is one of search, analysis,
// upload, read_aloud, general or error; Document and Sources are only set
// for kinds that surface documents.
type ChatResponse struct {
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Document *ChatDocument `json:"document,omitempty"`
	Sources  []string      `json:"sources,omitempty"`
}

// Document is a stored document record.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename,omitempty"`
	Content     string    `json:"content,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Category    string    `json:"category"`
	Keywords    []string  `json:"keywords,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"file_size"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Job statuses. Jobs move pending -> processing -> completed or failed.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job tracks one background ingest task.
type Job struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Terminal reports whether the job reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// HealthReport is the aggregated component health. Check values are "ok"
// or "error" per component.
type HealthReport struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	UptimeSec int64             `json:"uptime_sec,omitempty"`
	Checks    map[string]string `json:"checks"`
}
