package shelfwise

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"
)

// DocumentService manages stored documents and ingest jobs.
type DocumentService struct {
	client *Client
}

// Upload submits a file for asynchronous ingestion and returns the tracking
// job. The returned job starts in the pending state; poll Job or call
// WaitForJob to observe completion.
func (s *DocumentService) Upload(ctx context.Context, filename, contentType string, data []byte) (out Job, err error) {
	start := time.Now()
	defer func() { s.client.obs.observe("upload", start, err) }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	fw, err := mw.CreatePart(header)
	if err != nil {
		return Job{}, fmt.Errorf("shelfwise: build multipart: %w", err)
	}
	if _, err = fw.Write(data); err != nil {
		return Job{}, fmt.Errorf("shelfwise: build multipart: %w", err)
	}
	if err = mw.Close(); err != nil {
		return Job{}, fmt.Errorf("shelfwise: build multipart: %w", err)
	}

	resp, err := s.client.do(ctx, http.MethodPost, "/api/v1/documents", mw.FormDataContentType(), &buf)
	if err != nil {
		return Job{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return Job{}, decodeError(resp)
	}

	var accepted struct {
		JobID      string `json:"job_id"`
		DocumentID string `json:"document_id"`
		Status     string `json:"status"`
	}
	if err = decodeJSON(resp, &accepted); err != nil {
		return Job{}, err
	}
	return Job{ID: accepted.JobID, DocumentID: accepted.DocumentID, Status: accepted.Status}, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (out Document, err error) {
	start := time.Now()
	defer func() { s.client.obs.observe("get_document", start, err) }()

	err = s.client.doJSON(ctx, http.MethodGet, "/api/v1/documents/"+id, nil, &out)
	return out, err
}

// List returns documents, optionally restricted to one category.
// limit <= 0 uses the server default page size.
func (s *DocumentService) List(ctx context.Context, category string, limit int) (out []Document, err error) {
	start := time.Now()
	defer func() { s.client.obs.observe("list_documents", start, err) }()

	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/documents"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err = s.client.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// DownloadURL returns a short-lived URL for fetching the original file.
func (s *DocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	start := time.Now()
	var err error
	defer func() { s.client.obs.observe("download_url", start, err) }()

	var resp struct {
		URL string `json:"url"`
	}
	if err = s.client.doJSON(ctx, http.MethodGet, "/api/v1/documents/"+id+"/url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Delete removes a document everywhere it is stored.
func (s *DocumentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.client.obs.observe("delete_document", start, err) }()

	err = s.client.doJSON(ctx, http.MethodDelete, "/api/v1/documents/"+id, nil, nil)
	return err
}

// Job fetches the current state of an ingest job.
func (s *DocumentService) Job(ctx context.Context, jobID string) (out Job, err error) {
	start := time.Now()
	defer func() { s.client.obs.observe("get_job", start, err) }()

	err = s.client.doJSON(ctx, http.MethodGet, "/api/v1/jobs/"+jobID, nil, &out)
	return out, err
}

// WaitForJob polls until the job reaches a terminal state or ctx expires.
func (s *DocumentService) WaitForJob(ctx context.Context, jobID string, interval time.Duration) (Job, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		j, err := s.Job(ctx, jobID)
		if err != nil {
			return Job{}, err
		}
		if j.Terminal() {
			return j, nil
		}

		select {
		case <-ctx.Done():
			return j, ctx.Err()
		case <-ticker.C:
		}
	}
}
