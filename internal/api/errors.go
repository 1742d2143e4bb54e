package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any *APIError carrying a 404 status.
var ErrNotFound = errors.New("resource not found")

// APIError represents a non-2xx HTTP response from the Mailhog API.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d on %s %s: %s", e.StatusCode, e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("API error %d on %s %s", e.StatusCode, e.Method, e.URL)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// EncodeError represents a request body that could not be JSON encoded.
type EncodeError struct {
	Err  error
	Path string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode request body for %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}
