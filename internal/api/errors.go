package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the backend could not be reached or timed out.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrUnauthorized means the backend rejected the caller's credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx backend response. Detail carries the backend's
// human-readable "detail" field when present and is shown to the user as-is.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}
