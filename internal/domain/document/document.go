package document

import (
	"fmt"
	"strings"
	"time"
)

// Known classification categories. Anything the classifier cannot place
// lands in CategoryOthers.
const (
	CategoryPolicies    = "policies_guidelines"
	CategoryOperations  = "operations_production"
	CategoryMaintenance = "maintenance_technical"
	CategoryTraining    = "training_knowledge"
	CategoryOthers      = "others"
)

// Categories lists every known category in a stable order.
func Categories() []string {
	return []string{
		CategoryPolicies, CategoryOperations, CategoryMaintenance,
		CategoryTraining, CategoryOthers,
	}
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryPolicies, CategoryOperations, CategoryMaintenance,
		CategoryTraining, CategoryOthers:
		return true
	}
	return false
}

// Processing status of an uploaded document.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is the document aggregate (immutable value object).
type Document struct {
	id          string
	title       string
	filename    string
	content     string
	summary     string
	category    string
	keywords    []string
	contentType string
	size        int64
	storageKey  string
	status      string
	uploadedAt  time.Time
}

// New validates and creates a Document at upload time. Classification fields
// (summary, category, keywords) are filled in later by the ingest pipeline.
func New(id, title, filename, contentType string, size int64, storageKey string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required")
	}
	if size < 0 {
		return Document{}, fmt.Errorf("size must be non-negative, got %d", size)
	}
	return Document{
		id:          id,
		title:       title,
		filename:    filename,
		contentType: contentType,
		size:        size,
		storageKey:  storageKey,
		category:    CategoryOthers,
		status:      StatusPending,
		uploadedAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, title, filename, content, summary, category string,
	keywords []string, contentType string, size int64,
	storageKey, status string, uploadedAt time.Time,
) Document {
	return Document{
		id: id, title: title, filename: filename, content: content,
		summary: summary, category: category, keywords: keywords,
		contentType: contentType, size: size, storageKey: storageKey,
		status: status, uploadedAt: uploadedAt,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the display title.
func (d *Document) Title() string { return d.title }

// Filename returns the original upload filename.
func (d *Document) Filename() string { return d.filename }

// Content returns the extracted text content.
func (d *Document) Content() string { return d.content }

// Summary returns the classifier-produced summary.
func (d *Document) Summary() string { return d.summary }

// Category returns the classification category.
func (d *Document) Category() string { return d.category }

// Keywords returns the classifier-produced keywords.
func (d *Document) Keywords() []string { return d.keywords }

// ContentType returns the upload MIME type.
func (d *Document) ContentType() string { return d.contentType }

// Size returns the upload size in bytes.
func (d *Document) Size() int64 { return d.size }

// StorageKey returns the object-storage key of the original file.
func (d *Document) StorageKey() string { return d.storageKey }

// Status returns the processing status.
func (d *Document) Status() string { return d.status }

// UploadedAt returns the upload timestamp.
func (d *Document) UploadedAt() time.Time { return d.uploadedAt }

// WithContent returns a copy carrying the extracted text.
func (d *Document) WithContent(content string) Document {
	c := *d
	c.content = content
	return c
}

// WithClassification returns a copy carrying classifier output.
func (d *Document) WithClassification(summary, category string, keywords []string) Document {
	c := *d
	c.summary = summary
	c.keywords = keywords
	if ValidCategory(category) {
		c.category = category
	} else {
		c.category = CategoryOthers
	}
	return c
}

// WithStatus returns a copy with the given processing status.
func (d *Document) WithStatus(status string) Document {
	c := *d
	c.status = status
	return c
}

// Excerpt returns the first n characters of content with an ellipsis marker
// when truncated.
func (d *Document) Excerpt(n int) string {
	if len(d.content) <= n {
		return d.content
	}
	return strings.TrimSpace(d.content[:n]) + "..."
}
