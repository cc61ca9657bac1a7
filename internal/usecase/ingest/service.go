package ingest

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shelfwise/shelfwise/internal/domain"
	"github.com/shelfwise/shelfwise/internal/domain/document"
	"github.com/shelfwise/shelfwise/internal/domain/job"
	"github.com/shelfwise/shelfwise/internal/metrics"
)

// task is one queued unit of work. The raw bytes travel with the task so
// workers never re-read the blob store.
type task struct {
	jobID string
	doc   document.Document
	data  []byte
}

// Service runs the asynchronous upload pipeline: store the original file,
// extract its text, classify it, then write metadata and the search index.
type Service struct {
	blob    BlobStore
	meta    MetadataStore
	index   IndexWriter
	extract Extractor
	llm     Completer
	log     *zap.Logger

	queue chan task
	wg    sync.WaitGroup

	mu   sync.RWMutex
	jobs map[string]*job.Job

	workers int
}

func New(
	blob BlobStore, meta MetadataStore, index IndexWriter,
	extract Extractor, llm Completer,
	queueSize, workers int, log *zap.Logger,
) *Service {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 2
	}
	return &Service{
		blob:    blob,
		meta:    meta,
		index:   index,
		extract: extract,
		llm:     llm,
		log:     log.Named("ingest"),
		queue:   make(chan task, queueSize),
		jobs:    map[string]*job.Job{},
		workers: workers,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled or the
// queue is drained after Stop.
func (s *Service) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	s.log.Info("ingest workers started", zap.Int("workers", s.workers))
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (s *Service) Stop() {
	close(s.queue)
	s.wg.Wait()
	s.log.Info("ingest workers stopped")
}

// Submit stores the original file and enqueues processing. It returns the
// job and document IDs immediately; callers poll Job for progress.
func (s *Service) Submit(ctx context.Context, filename, contentType string, data []byte) (string, string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || len(data) == 0 {
		return "", "", fmt.Errorf("%w: filename and file content are required", domain.ErrInvalidInput)
	}

	docID := uuid.NewString()
	storageKey := fmt.Sprintf("documents/%s/%s", docID, slugify(filename))

	doc, err := document.New(docID, filename, filename, contentType, int64(len(data)), storageKey)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.blob.Put(ctx, storageKey, contentType, data); err != nil {
		return "", "", fmt.Errorf("store upload: %w", err)
	}

	now := time.Now().UTC()
	j := &job.Job{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Status:     job.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()

	select {
	case s.queue <- task{jobID: j.ID, doc: doc, data: data}:
		metrics.IngestQueueDepth.Set(float64(len(s.queue)))
	default:
		s.mu.Lock()
		delete(s.jobs, j.ID)
		s.mu.Unlock()
		if err := s.blob.Delete(ctx, storageKey); err != nil {
			s.log.Warn("orphan cleanup failed", zap.String("key", storageKey), zap.Error(err))
		}
		return "", "", domain.ErrQueueFull
	}

	s.log.Info("upload accepted",
		zap.String("job_id", j.ID),
		zap.String("document_id", docID),
		zap.String("filename", filename),
		zap.Int("size", len(data)))
	return j.ID, docID, nil
}

// Job returns a snapshot of the job's current state.
func (s *Service) Job(jobID string) (job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return job.Job{}, domain.ErrJobNotFound
	}
	return *j, nil
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-s.queue:
			if !ok {
				return
			}
			metrics.IngestQueueDepth.Set(float64(len(s.queue)))
			s.process(ctx, t)
		}
	}
}

func (s *Service) process(ctx context.Context, t task) {
	start := time.Now()
	s.setStatus(t.jobID, job.StatusProcessing, "")

	doc, err := s.buildDocument(ctx, t)
	if err != nil {
		s.finish(t.jobID, job.StatusFailed, err.Error(), start)
		return
	}

	// Metadata and index are written independently. One surviving write
	// keeps the document reachable; total failure fails the job.
	metaErr := s.meta.Put(ctx, doc)
	if metaErr != nil {
		s.log.Error("metadata write failed",
			zap.String("document_id", doc.ID()), zap.Error(metaErr))
	}
	indexErr := s.index.Put(ctx, doc)
	if indexErr != nil {
		s.log.Error("index write failed",
			zap.String("document_id", doc.ID()), zap.Error(indexErr))
	}
	if metaErr != nil && indexErr != nil {
		s.finish(t.jobID, job.StatusFailed, "document could not be persisted", start)
		return
	}

	s.finish(t.jobID, job.StatusCompleted, "", start)
	s.log.Info("document processed",
		zap.String("job_id", t.jobID),
		zap.String("document_id", doc.ID()),
		zap.String("category", doc.Category()),
		zap.Duration("took", time.Since(start)))
}

func (s *Service) buildDocument(ctx context.Context, t task) (document.Document, error) {
	text, err := s.extract.Extract(ctx, t.doc.ContentType(), t.data)
	if err != nil {
		return document.Document{}, fmt.Errorf("extract text: %w", err)
	}

	verdict := s.classify(ctx, t.doc.Filename(), text)

	doc := t.doc.WithContent(text)
	doc = doc.WithClassification(verdict.Summary, verdict.Category, verdict.Keywords)
	return doc.WithStatus(document.StatusCompleted), nil
}

func (s *Service) setStatus(jobID, status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		j.Status = status
		j.Error = errMsg
		j.UpdatedAt = time.Now().UTC()
	}
}

func (s *Service) finish(jobID, status, errMsg string, start time.Time) {
	s.setStatus(jobID, status, errMsg)
	metrics.IngestJobsTotal.WithLabelValues(status).Inc()
	metrics.IngestJobDuration.Observe(time.Since(start).Seconds())
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

// slugify produces a storage-safe object name from the upload filename.
func slugify(filename string) string {
	slug := strings.ToLower(path.Base(filename))
	slug = slugUnsafe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-.")
	if slug == "" {
		slug = "file"
	}
	return slug
}
