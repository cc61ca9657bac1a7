package shelfwise

import (
	"fmt"

	"github.com/shelfwise/shelfwise/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrJobNotFound      = domain.ErrJobNotFound
	ErrInvalidInput     = domain.ErrInvalidInput
	ErrQueueFull        = domain.ErrQueueFull
	ErrUnavailable      = domain.ErrUnavailable
)

// APIError is the decoded JSON error body of a failed request. Unwrap maps
// the server's error code back to the matching sentinel, so callers can use
// errors.Is without inspecting codes.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shelfwise: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "not_found":
		return ErrNotFound
	case "document_not_found":
		return ErrDocumentNotFound
	case "job_not_found":
		return ErrJobNotFound
	case "bad_request", "validation_failed":
		return ErrInvalidInput
	case "queue_full":
		return ErrQueueFull
	case "upstream_error":
		return ErrUnavailable
	default:
		return nil
	}
}
