package chat

// Reply is the orchestrator's answer to one message. It is a closed set of
// variants, one per response kind, each carrying exactly the fields that
// kind uses.
type Reply interface {
	Kind() string
	Text() string
}

// DocumentView is the formatted document payload attached to replies that
// surface a single document. Score is the index confidence normalized to
// [0,1] for presentation; SimilarityPercent carries the ranked relevance.
type DocumentView struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Excerpt           string   `json:"excerpt,omitempty"`
	Category          string   `json:"category,omitempty"`
	Keywords          []string `json:"keywords,omitempty"`
	Score             float64  `json:"score,omitempty"`
	SimilarityPercent float64  `json:"similarity_percentage,omitempty"`
}

// SearchReply answers a search-style message with a best-match document.
type SearchReply struct {
	Message  string
	Document *DocumentView
	Sources  []string
}

func (r SearchReply) Kind() string { return "search" }
func (r SearchReply) Text() string { return r.Message }

// AnalysisReply answers an analysis request.
type AnalysisReply struct {
	Message string
}

func (r AnalysisReply) Kind() string { return "analysis" }
func (r AnalysisReply) Text() string { return r.Message }

// UploadReply carries upload guidance.
type UploadReply struct {
	Message string
}

func (r UploadReply) Kind() string { return "upload" }
func (r UploadReply) Text() string { return r.Message }

// ReadAloudReply carries content prepared for reading out loud.
type ReadAloudReply struct {
	Message  string
	Document *DocumentView
}

func (r ReadAloudReply) Kind() string { return "read_aloud" }
func (r ReadAloudReply) Text() string { return r.Message }

// GeneralReply is conversational small talk or a follow-up answer.
type GeneralReply struct {
	Message string
}

func (r GeneralReply) Kind() string { return "general" }
func (r GeneralReply) Text() string { return r.Message }

// ErrorReply is a user-visible failure message.
type ErrorReply struct {
	Message string
}

func (r ErrorReply) Kind() string { return "error" }
func (r ErrorReply) Text() string { return r.Message }

// Context is the caller-supplied per-message conversation state. Nothing is
// persisted server-side across calls.
type Context struct {
	Document     *ContextDocument `json:"document,omitempty"`
	LastResponse string           `json:"last_response,omitempty"`
}

// ContextDocument is the currently focused document as the caller saw it.
type ContextDocument struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}
