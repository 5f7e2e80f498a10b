package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// conflictMarker is the phrase the backend puts in the error detail when an
// enrichment job is already running for the company.
const conflictMarker = "already in progress"

// Error is a non-2xx response from the backend. Detail carries the
// human-readable "detail" field when the backend provided one.
type Error struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend error: %s", http.StatusText(e.StatusCode))
}

// IsConflict reports whether the error means an enrichment job is already
// running for the company. Callers show a softer advisory notice for these
// instead of a generic failure.
func IsConflict(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusConflict {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Detail), conflictMarker)
}
