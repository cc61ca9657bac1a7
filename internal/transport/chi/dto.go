package chi

import (
	"time"

	chatdom "github.com/shelfwise/shelfwise/internal/domain/chat"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/ranked"
)

type searchRequest struct {
	Query         string  `json:"query"`
	Category      string  `json:"category,omitempty"`
	MaxResults    int     `json:"max_results,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

type searchResultItem struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Excerpt              string   `json:"excerpt,omitempty"`
	Category             string   `json:"category,omitempty"`
	Keywords             []string `json:"keywords,omitempty"`
	SimilarityPercentage float64  `json:"similarity_percentage"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Total   int                `json:"total"`
}

func searchResultToDTO(r *ranked.Result) searchResultItem {
	it := r.Item()
	return searchResultItem{
		ID:                   it.ID(),
		Title:                it.Title(),
		Excerpt:              it.Excerpt(),
		Category:             it.Category(),
		Keywords:             it.Keywords(),
		SimilarityPercentage: r.SimilarityPercent(),
	}
}

type chatRequest struct {
	Message string           `json:"message"`
	Context *chatdom.Context `json:"context,omitempty"`
}

type chatResponse struct {
	Type     string                `json:"type"`
	Message  string                `json:"message"`
	Document *chatdom.DocumentView `json:"document,omitempty"`
	Sources  []string              `json:"sources,omitempty"`
}

// chatReplyToDTO flattens the reply union into one response shape. The type
// discriminator tells the client which optional fields to expect.
func chatReplyToDTO(reply chatdom.Reply) chatResponse {
	out := chatResponse{Type: reply.Kind(), Message: reply.Text()}
	switch r := reply.(type) {
	case chatdom.SearchReply:
		out.Document = r.Document
		out.Sources = r.Sources
	case chatdom.ReadAloudReply:
		out.Document = r.Document
	}
	return out
}

type uploadResponse struct {
	JobID      string `json:"job_id"`
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

type documentResponse struct {
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

func documentToDTO(doc *document.Document) documentResponse {
	return documentResponse{
		ID:          doc.ID(),
		Title:       doc.Title(),
		Filename:    doc.Filename(),
		Content:     doc.Content(),
		Summary:     doc.Summary(),
		Category:    doc.Category(),
		Keywords:    doc.Keywords(),
		ContentType: doc.ContentType(),
		Size:        doc.Size(),
		Status:      doc.Status(),
		UploadedAt:  doc.UploadedAt().UTC(),
	}
}

type documentListResponse struct {
	Documents []documentResponse `json:"documents"`
	Total     int                `json:"total"`
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
