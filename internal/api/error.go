package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx backend response surfaced to the caller. It is
// propagated verbatim into failure actions; nothing retries it.
type Error struct {
	// StatusCode is the HTTP status the backend answered with.
	StatusCode int

	// URL is the request target, without credentials.
	URL string

	// Message is the backend-provided message when the error body could
	// be decoded, otherwise empty.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("backend returned %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401 or 403.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
