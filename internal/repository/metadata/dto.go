package metadata

import (
	"time"

	"github.com/shelfwise/shelfwise/internal/domain/document"
)

// record is the DynamoDB shape of a document.
type record struct {
	ID          string   `dynamodbav:"id"`
	Title       string   `dynamodbav:"title"`
	Filename    string   `dynamodbav:"filename"`
	Content     string   `dynamodbav:"content"`
	Summary     string   `dynamodbav:"summary"`
	Category    string   `dynamodbav:"category"`
	Keywords    []string `dynamodbav:"keywords,omitempty"`
	ContentType string   `dynamodbav:"content_type"`
	Size        int64    `dynamodbav:"file_size"`
	StorageKey  string   `dynamodbav:"s3_key"`
	Status      string   `dynamodbav:"status"`
	UploadedAt  string   `dynamodbav:"upload_date"`
}

func toRecord(doc *document.Document) record {
	return record{
		ID:          doc.ID(),
		Title:       doc.Title(),
		Filename:    doc.Filename(),
		Content:     doc.Content(),
		Summary:     doc.Summary(),
		Category:    doc.Category(),
		Keywords:    doc.Keywords(),
		ContentType: doc.ContentType(),
		Size:        doc.Size(),
		StorageKey:  doc.StorageKey(),
		Status:      doc.Status(),
		UploadedAt:  doc.UploadedAt().UTC().Format(time.RFC3339),
	}
}

func (r record) toDocument() document.Document {
	uploadedAt, _ := time.Parse(time.RFC3339, r.UploadedAt)
	return document.Reconstruct(
		r.ID, r.Title, r.Filename, r.Content, r.Summary, r.Category,
		r.Keywords, r.ContentType, r.Size, r.StorageKey, r.Status, uploadedAt,
	)
}
