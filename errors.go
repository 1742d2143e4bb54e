package mailhog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpkamp/mailhog-client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingBaseURL is returned when no base URL is provided.
	ErrMissingBaseURL = errors.New("base URL is required")

	// ErrNoSuchMessage is returned when a requested message does not exist
	// or the inbox holds no message at all.
	ErrNoSuchMessage = errors.New("no such message")

	// ErrEncodingFailed is returned when a request body cannot be encoded.
	ErrEncodingFailed = errors.New("request encoding failed")

	// ErrInvalidRelease is returned when release parameters fail validation.
	ErrInvalidRelease = errors.New("invalid release parameters")

	// ErrAddressDelimiter is returned when an address contains the list delimiter.
	ErrAddressDelimiter = errors.New("address contains list delimiter")

	// ErrNilSpecification is returned when a nil Specification is passed.
	ErrNilSpecification = errors.New("specification is nil")
)

// MailhogError is implemented by all SDK errors.
type MailhogError interface {
	error
	MailhogError() // marker method
}

// NotFoundError is returned when a message cannot be found. MessageID is
// empty when the lookup was not for a specific id.
type NotFoundError struct {
	MessageID string
	Err       error
}

func (e *NotFoundError) Error() string {
	if e.MessageID == "" {
		return "no last message found, inbox empty"
	}
	return fmt.Sprintf("no message found with id %q", e.MessageID)
}

// Unwrap returns the underlying error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNoSuchMessage
}

// MailhogError implements the MailhogError interface.
func (e *NotFoundError) MailhogError() {}

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

// MailhogError implements the MailhogError interface.
func (e *APIError) MailhogError() {}

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

// MailhogError implements the MailhogError interface.
func (e *NetworkError) MailhogError() {}

// EncodingError is returned when the body of a release request cannot be
// encoded.
type EncodingError struct {
	MessageID string
	Err       error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unable to JSON encode data to release message %s: %v", e.MessageID, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncodingFailed
}

// MailhogError implements the MailhogError interface.
func (e *EncodingError) MailhogError() {}

// ValidationError contains multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Errors)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRelease
}

// MailhogError implements the MailhogError interface.
func (e *ValidationError) MailhogError() {}

// TimeoutError represents an operation that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// Unwrap returns context.DeadlineExceeded.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// MailhogError implements the MailhogError interface.
func (e *TimeoutError) MailhogError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.As() checks work with public error types.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Method:     apiErr.Method,
			URL:        apiErr.URL,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err: netErr.Err,
			URL: netErr.URL,
		}
	}

	return err
}
