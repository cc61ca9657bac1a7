package library

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/logger"
)

// Service is the document surface: lookups, download URLs, removal.
type Service struct {
	resolver Resolver
	meta     MetadataStore
	index    IndexStore
	blob     BlobStore
}

func New(resolver Resolver, meta MetadataStore, index IndexStore, blob BlobStore) *Service {
	return &Service{resolver: resolver, meta: meta, index: index, blob: blob}
}

// Get returns a document, accepting fuzzy references.
func (s *Service) Get(ctx context.Context, documentID string) (document.Document, error) {
	return s.resolver.Resolve(ctx, documentID)
}

// List returns documents in one category, or across all categories when
// category is empty. The metadata store is keyed per category, so the
// unfiltered listing walks every category and applies the limit overall.
func (s *Service) List(ctx context.Context, category string, limit int) ([]document.Document, error) {
	if category != "" {
		if !document.ValidCategory(category) {
			return nil, fmt.Errorf("unknown category %q: %w", category, domain.ErrInvalidInput)
		}
		docs, err := s.meta.ListByCategory(ctx, category, limit)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		return docs, nil
	}

	var out []document.Document
	for _, cat := range document.Categories() {
		remaining := 0
		if limit > 0 {
			remaining = limit - len(out)
			if remaining <= 0 {
				break
			}
		}
		docs, err := s.meta.ListByCategory(ctx, cat, remaining)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		out = append(out, docs...)
	}
	return out, nil
}

// DownloadURL returns a time-limited URL for the original file.
func (s *Service) DownloadURL(ctx context.Context, documentID string) (string, error) {
	doc, err := s.resolver.Resolve(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc.StorageKey() == "" {
		return "", fmt.Errorf("document %s has no stored file: %w", doc.ID(), domain.ErrNotFound)
	}
	url, err := s.blob.PresignURL(ctx, doc.StorageKey())
	if err != nil {
		return "", fmt.Errorf("sign download url: %w", err)
	}
	return url, nil
}

// Delete removes the document everywhere it lives. The metadata record and
// the index entry are removed independently; the original file is cleaned
// up best-effort once neither store references it.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	log := logger.FromContext(ctx)

	storageKey := ""
	if doc, err := s.meta.Get(ctx, documentID); err == nil {
		storageKey = doc.StorageKey()
	}

	metaErr := s.meta.Delete(ctx, documentID)
	indexErr := s.index.Delete(ctx, documentID)

	metaMissing := errors.Is(metaErr, domain.ErrDocumentNotFound)
	indexMissing := errors.Is(indexErr, domain.ErrDocumentNotFound)
	if metaMissing && indexMissing {
		return domain.ErrDocumentNotFound
	}
	if metaErr != nil && !metaMissing {
		return fmt.Errorf("delete metadata %s: %w", documentID, metaErr)
	}
	if indexErr != nil && !indexMissing {
		return fmt.Errorf("delete index entry %s: %w", documentID, indexErr)
	}

	if storageKey != "" {
		if err := s.blob.Delete(ctx, storageKey); err != nil {
			log.Warn("original file cleanup failed",
				zap.String("document_id", documentID),
				zap.String("key", storageKey),
				zap.Error(err))
		}
	}
	return nil
}
