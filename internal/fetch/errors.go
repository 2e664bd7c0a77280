package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a single attempt exceeds its timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrInvalidJSON is returned when a 2xx body is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON response")
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// IsTimeout reports whether err is an attempt timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
