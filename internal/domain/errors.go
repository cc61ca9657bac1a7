package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrJobNotFound signals an unknown ingest job.
	ErrJobNotFound = errors.New("job not found")
	// ErrInvalidInput signals a rejected caller request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable signals a collaborator transport or auth failure.
	ErrUnavailable = errors.New("collaborator unavailable")
	// ErrMalformedModelOutput signals a model response that could not be parsed.
	ErrMalformedModelOutput = errors.New("malformed model output")
	// ErrQueueFull signals that the ingest queue rejected a job.
	ErrQueueFull = errors.New("ingest queue full")
)
