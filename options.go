package mailhog

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpkamp/mailhog-client-go/internal/api"
)

const (
	defaultTimeout      = api.DefaultTimeout
	defaultWaitTimeout  = 30 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

// Doer performs a single HTTP request/response exchange. *http.Client
// implements it.
type Doer = api.Doer

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient *http.Client
	doer       Doer
	timeout    time.Duration
	logger     zerolog.Logger
	trace      bool
	userAgent  string
}

// waitConfig holds configuration for waiting on messages.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures message waiting.
type WaitOption func(*waitConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithDoer sets a custom transport. It takes precedence over WithHTTPClient,
// WithTimeout and WithTrace.
func WithDoer(doer Doer) Option {
	return func(c *clientConfig) {
		c.doer = doer
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request logging.
// Default: zerolog.Nop()
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTrace dumps every request and response to the logger at trace level.
func WithTrace(enabled bool) Option {
	return func(c *clientConfig) {
		c.trace = enabled
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithWaitTimeout sets the timeout for waiting.
// Default: 30 seconds
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the minimum interval between inbox polls.
// Default: 500 milliseconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// buildDoer picks the transport described by cfg.
func buildDoer(cfg *clientConfig) Doer {
	if cfg.doer != nil {
		return cfg.doer
	}

	httpClient := http.Client{Timeout: defaultTimeout}
	if cfg.httpClient != nil {
		httpClient = *cfg.httpClient
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}
	if cfg.trace {
		httpClient.Transport = api.WrapTrace(httpClient.Transport, cfg.logger)
	}
	return &httpClient
}
