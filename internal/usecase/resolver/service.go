package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/search/item"
	"github.com/shelfwise/shelfwise/internal/logger"
)

const probeLimit = 10

// DefaultMatchThreshold is the acceptance threshold for scored title matches.
const DefaultMatchThreshold = 0.5

// Service resolves an opaque identifier (index key, derived title, or
// sanitized filename) to the actual document through a layered cascade:
// key lookup, raw-id probe, normalized-title probe, topic-guess probe.
type Service struct {
	store     MetadataStore
	index     Index
	threshold float64
}

// New creates a resolver. threshold tunes the scored title-match acceptance;
// pass 0 to use the default.
func New(store MetadataStore, index Index, threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Service{store: store, index: index, threshold: threshold}
}

// Resolve finds the document behind documentID. Absence is a normal outcome
// reported as domain.ErrDocumentNotFound; index transport failures propagate
// as errors.
func (s *Service) Resolve(ctx context.Context, documentID string) (document.Document, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(documentID) == "" {
		return document.Document{}, fmt.Errorf("document id is required: %w", domain.ErrInvalidInput)
	}

	// Direct key lookup first: the metadata store has a real primary key,
	// unlike the index probes below.
	if s.store != nil {
		doc, err := s.store.Get(ctx, documentID)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("metadata lookup failed, falling back to index probes",
				zap.String("document_id", documentID), zap.Error(err))
		}
	}

	// Stage 1: probe the index with the raw identifier.
	items, err := s.index.Search(ctx, documentID, "", probeLimit)
	if err != nil {
		return document.Document{}, fmt.Errorf("id probe: %w", err)
	}
	for i := range items {
		if idMatches(items[i].ID(), documentID) {
			log.Debug("resolved via raw id probe", zap.String("document_id", documentID))
			return s.hydrate(ctx, &items[i]), nil
		}
	}

	// Stage 2: probe with the separator-normalized identifier and accept a
	// scored title match.
	normalized := normalizeID(documentID)
	if normalized != "" {
		items, err = s.index.Search(ctx, normalized, "", probeLimit)
		if err != nil {
			return document.Document{}, fmt.Errorf("title probe: %w", err)
		}
		for i := range items {
			if score := matchScore(documentID, items[i].Title()); score >= s.threshold {
				log.Debug("resolved via title probe",
					zap.String("document_id", documentID), zap.Float64("score", score))
				return s.hydrate(ctx, &items[i]), nil
			}
		}
	}

	// Stage 3: best-effort probe with a topic guess. A scored match wins;
	// otherwise the first hit is returned unconditionally.
	guess := topicGuess(documentID)
	if guess != "" {
		items, err = s.index.Search(ctx, guess, "", probeLimit)
		if err != nil {
			return document.Document{}, fmt.Errorf("topic probe: %w", err)
		}
		for i := range items {
			if matchScore(documentID, items[i].Title()) >= s.threshold ||
				idMatches(items[i].ID(), documentID) {
				return s.hydrate(ctx, &items[i]), nil
			}
		}
		if len(items) > 0 {
			log.Debug("resolved via topic guess first hit",
				zap.String("document_id", documentID), zap.String("guess", guess))
			return s.hydrate(ctx, &items[0]), nil
		}
	}

	return document.Document{}, domain.ErrDocumentNotFound
}

// idMatches accepts exact, suffix, and substring relations between an index
// key and the requested identifier.
func idMatches(itemID, documentID string) bool {
	if itemID == "" || documentID == "" {
		return false
	}
	return itemID == documentID ||
		strings.HasSuffix(itemID, documentID) ||
		strings.Contains(itemID, documentID)
}

// hydrate upgrades an index hit to the full document record when the
// metadata store has one; otherwise the hit's own fields are used and the
// content is just the excerpt.
func (s *Service) hydrate(ctx context.Context, it *item.Item) document.Document {
	if s.store != nil {
		if doc, err := s.store.Get(ctx, it.ID()); err == nil {
			return doc
		}
	}

	var size int64
	if v := it.Attribute("file_size"); v != "" {
		size, _ = strconv.ParseInt(v, 10, 64)
	}
	var uploadedAt time.Time
	if v := it.Attribute("upload_date"); v != "" {
		uploadedAt, _ = time.Parse(time.RFC3339, v)
	}

	return document.Reconstruct(
		it.ID(), it.Title(), "", it.Excerpt(), "", it.Category(),
		it.Keywords(), it.Attribute("file_type"), size,
		it.Attribute("s3_key"), it.Attribute("status"), uploadedAt,
	)
}
