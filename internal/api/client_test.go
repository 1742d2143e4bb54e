package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rpkamp/mailhog-client-go/internal/api/mocks"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("///")
	assert.Error(t, err)
}

func TestNew_StripsTrailingSlash(t *testing.T) {
	client, err := New("http://mailhog.local:1080///")
	require.NoError(t, err)
	assert.Equal(t, "http://mailhog.local:1080", client.BaseURL())
}

func TestNew_DefaultValues(t *testing.T) {
	client, err := New("http://mailhog.local")
	require.NoError(t, err)

	httpClient, ok := client.doer.(*http.Client)
	require.True(t, ok, "default doer should be *http.Client")
	assert.Equal(t, DefaultTimeout, httpClient.Timeout)
}

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mailhog-test", r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Content-Type"), "GET carries no body")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := New(server.URL, WithUserAgent("mailhog-test"))
	require.NoError(t, err)

	var result struct{ OK bool }
	require.NoError(t, client.getJSON(context.Background(), "/test", &result))
	assert.True(t, result.OK)
}

func TestClient_Do_WithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct{ Name string }
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test", body.Name)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.do(context.Background(), http.MethodPost, "/test", struct{ Name string }{"test"})
	assert.NoError(t, err)
}

func TestClient_Do_NoRetryOn5xx(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"try later"}`))
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.do(context.Background(), http.MethodGet, "/test", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "try later", apiErr.Message)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_Do_PlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such route", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.do(context.Background(), http.MethodGet, "/nope", nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "no such route", apiErr.Message)
}

func TestClient_Do_NetworkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	refused := errors.New("connection refused")
	doer.EXPECT().Do(gomock.Any()).Return(nil, refused).Times(1)

	client, err := New("http://mailhog.local", WithDoer(doer))
	require.NoError(t, err)

	_, err = client.do(context.Background(), http.MethodGet, "/api/messages/", nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "http://mailhog.local/api/messages/", netErr.URL)
	assert.True(t, errors.Is(err, refused))
}

func TestClient_Do_EncodeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mocks.NewMockDoer(ctrl)

	client, err := New("http://mailhog.local", WithDoer(doer))
	require.NoError(t, err)

	_, err = client.do(context.Background(), http.MethodPost, "/x", map[string]any{"bad": make(chan int)})

	var encErr *EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "/x", encErr.Path)
}

func TestClient_Do_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.do(ctx, http.MethodGet, "/test", nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWrapTrace_DelegatesRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	}))
	defer server.Close()

	var logs strings.Builder
	httpClient := &http.Client{Transport: WrapTrace(nil, newTraceLogger(&logs))}

	client, err := New(server.URL, WithDoer(httpClient))
	require.NoError(t, err)

	data, err := client.do(context.Background(), http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(data))
	assert.Contains(t, logs.String(), "mailhog request dump")
	assert.Contains(t, logs.String(), "mailhog response dump")
}
