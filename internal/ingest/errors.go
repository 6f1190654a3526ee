package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the handle list blob could not be read.
	ErrSourceUnavailable = errors.New("handle source unavailable")

	// ErrAuthMissing means no bearer credential was available for the profile API.
	ErrAuthMissing = errors.New("profile API credential missing")

	// ErrBatchTooLarge means the handle list exceeds the upstream batch ceiling.
	ErrBatchTooLarge = errors.New("handle batch exceeds upstream limit")

	// ErrUpstream means the profile API answered with a non-success status.
	ErrUpstream = errors.New("profile API error")

	// ErrPersistence means a profile document could not be written.
	ErrPersistence = errors.New("profile persistence failed")

	// ErrMissingKey means a profile record carried no username to key on.
	ErrMissingKey = errors.New("profile record has no username")

	// ErrProfileNotFound means no document exists for the requested handle.
	ErrProfileNotFound = errors.New("profile not found")
)

type BatchTooLargeError struct {
	Size  int
	Limit int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d handles, limit %d", ErrBatchTooLarge, e.Size, e.Limit)
}

func (e *BatchTooLargeError) Is(target error) bool { return target == ErrBatchTooLarge }

// UpstreamError carries the status and raw body of a failed profile API call.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("request returned an error: %d %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// PersistenceError reports the first failed write. Written documents before it
// stay in place.
type PersistenceError struct {
	Key     string
	Written int
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s after %d documents: %v", ErrPersistence, e.Written, e.Err)
	}
	return fmt.Sprintf("%s for %q after %d documents: %v", ErrPersistence, e.Key, e.Written, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Kind names the error class for logs, metrics and HTTP status mapping.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrAuthMissing):
		return "auth_missing"
	case errors.Is(err, ErrBatchTooLarge):
		return "batch_too_large"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
