package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "with message",
			err:      &APIError{StatusCode: 500, Message: "boom", Method: "GET", URL: "http://h/api/messages/"},
			expected: "API error 500 on GET http://h/api/messages/: boom",
		},
		{
			name:     "without message",
			err:      &APIError{StatusCode: 502, Method: "DELETE", URL: "http://h/api/messages/1"},
			expected: "API error 502 on DELETE http://h/api/messages/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAPIError_Is(t *testing.T) {
	assert.True(t, errors.Is(&APIError{StatusCode: 404}, ErrNotFound))
	assert.False(t, errors.Is(&APIError{StatusCode: 500}, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", &APIError{StatusCode: 404}), ErrNotFound))
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := &NetworkError{Err: inner, URL: "http://h"}

	assert.Equal(t, "network error: dial tcp: connection refused", err.Error())
	assert.True(t, errors.Is(err, inner))
}

func TestEncodeError_Unwrap(t *testing.T) {
	inner := errors.New("unsupported type")
	err := &EncodeError{Err: inner, Path: "/api/messages/1/release"}

	assert.Equal(t, "encode request body for /api/messages/1/release: unsupported type", err.Error())
	assert.True(t, errors.Is(err, inner))
}

func TestMessageID_UnmarshalJSON(t *testing.T) {
	for raw, want := range map[string]MessageID{
		`12`:      "12",
		`"12"`:    "12",
		`"abc-1"`: "abc-1",
		`null`:    "",
	} {
		var id MessageID
		assert.NoError(t, id.UnmarshalJSON([]byte(raw)), raw)
		assert.Equal(t, want, id, raw)
	}

	var id MessageID
	assert.Error(t, id.UnmarshalJSON([]byte(`{}`)))
}
