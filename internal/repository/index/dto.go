package index

import (
	"strconv"
	"strings"
	"time"

	"github.com/shelfwise/shelfwise/internal/db"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
)

const excerptLength = 200

// buildHashFields flattens a document into HSET fields. Everything the
// resolver needs to hydrate a document without a metadata lookup rides
// along as plain fields.
func buildHashFields(doc *document.Document) map[string]string {
	return map[string]string{
		"title":       doc.Title(),
		"filename":    doc.Filename(),
		"content":     doc.Content(),
		"summary":     doc.Summary(),
		"category":    doc.Category(),
		"keywords":    strings.Join(doc.Keywords(), ","),
		"file_type":   doc.ContentType(),
		"file_size":   strconv.FormatInt(doc.Size(), 10),
		"s3_key":      doc.StorageKey(),
		"status":      doc.Status(),
		"upload_date": doc.UploadedAt().UTC().Format(time.RFC3339),
	}
}

// entryToItem converts one search hit into a domain item. The BM25 score
// travels as a numeric relevance hint.
func entryToItem(entry db.SearchEntry, keyPrefix string) (item.Item, bool) {
	id := strings.TrimPrefix(entry.Key, keyPrefix)
	fields := entry.Fields

	excerpt := fields["content"]
	if len(excerpt) > excerptLength {
		excerpt = strings.TrimSpace(excerpt[:excerptLength]) + "..."
	}

	var keywords []string
	for _, kw := range strings.Split(fields["keywords"], ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return item.New(id, fields["title"], excerpt, item.NumericScore(entry.Score), keywords,
		map[string]string{
			"category":    fields["category"],
			"summary":     fields["summary"],
			"filename":    fields["filename"],
			"file_type":   fields["file_type"],
			"file_size":   fields["file_size"],
			"s3_key":      fields["s3_key"],
			"status":      fields["status"],
			"upload_date": fields["upload_date"],
		})
}

// entryToDocument hydrates a full document from a search hit.
func entryToDocument(entry db.SearchEntry, keyPrefix string) document.Document {
	id := strings.TrimPrefix(entry.Key, keyPrefix)
	fields := entry.Fields

	size, _ := strconv.ParseInt(fields["file_size"], 10, 64)
	uploadedAt, _ := time.Parse(time.RFC3339, fields["upload_date"])

	var keywords []string
	for _, kw := range strings.Split(fields["keywords"], ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return document.Reconstruct(
		id, fields["title"], fields["filename"], fields["content"],
		fields["summary"], fields["category"], keywords,
		fields["file_type"], size, fields["s3_key"], fields["status"], uploadedAt,
	)
}
