package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultTimeout is the timeout of the http.Client created when no Doer is supplied.
const DefaultTimeout = 30 * time.Second

//go:generate mockgen -destination=mocks/mock_doer.go -package=mocks . Doer

// Doer performs a single HTTP request/response exchange.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the HTTP API client.
type Client struct {
	baseURL   string
	doer      Doer
	logger    zerolog.Logger
	userAgent string
}

// Option configures the API client.
type Option func(*Client)

// WithDoer sets the transport used for every request.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New creates a new API client. Trailing slashes are stripped from baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}

	c := &Client{
		baseURL: baseURL,
		doer:    &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and returns the response body. A nil body sends no
// payload; anything else is JSON encoded.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &EncodeError{Err: err, Path: path}
		}
		bodyReader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err, URL: url}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("mailhog request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err, URL: url}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseErrorResponse(method, url, resp.StatusCode, data)
	}

	return data, nil
}

// getJSON sends a GET request and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, result); err != nil {
		return errors.Wrapf(err, "decode response of %s", path)
	}
	return nil
}

func parseErrorResponse(method, url string, status int, body []byte) error {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Error != "":
			msg = errResp.Error
		case errResp.Message != "":
			msg = errResp.Message
		}
	}

	return &APIError{
		StatusCode: status,
		Message:    msg,
		Method:     method,
		URL:        url,
	}
}
