package mailhog

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/rpkamp/mailhog-client-go/internal/api"
)

// Body formats accepted by FetchByFormat.
const (
	FormatJSON  = api.FormatJSON
	FormatPlain = api.FormatPlain
	FormatHTML  = api.FormatHTML
)

// MessageRecord is the raw message payload returned by the server.
type MessageRecord = api.MessageRecord

// FormatResult is the result of FetchByFormat. Text formats fill Text,
// other formats fill Data, and Record too when the data is a message.
type FormatResult = api.FormatResult

// Client talks to a single Mailhog server. It holds only immutable
// configuration and issues requests strictly one after another.
type Client struct {
	apiClient *api.Client
	logger    zerolog.Logger
}

// New creates a client for the server at baseURL, for example
// "http://localhost:8025". Trailing slashes are stripped.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithDoer(buildDoer(cfg)),
		api.WithLogger(cfg.logger),
	}
	if cfg.userAgent != "" {
		apiOpts = append(apiOpts, api.WithUserAgent(cfg.userAgent))
	}

	apiClient, err := api.New(baseURL, apiOpts...)
	if err != nil {
		return nil, ErrMissingBaseURL
	}

	return &Client{
		apiClient: apiClient,
		logger:    cfg.logger,
	}, nil
}

// BaseURL returns the server address without trailing slash.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Messages returns a lazy iterator over every message in the inbox, in
// server order. Each call starts a fresh traversal.
func (c *Client) Messages() *MessageIterator {
	return newMessageIterator(c)
}

// FetchMetadata fetches the json representation of a message and attaches
// its body, preferring the plain format over html.
func (c *Client) FetchMetadata(ctx context.Context, messageID string) (*MessageRecord, error) {
	result, err := c.FetchByFormat(ctx, messageID, FormatJSON)
	if err != nil {
		return nil, err
	}
	record := result.Record

	bodyFormat := FormatHTML
	if record.HasFormat(FormatPlain) {
		bodyFormat = FormatPlain
	}

	body, err := c.FetchByFormat(ctx, messageID, bodyFormat)
	if err != nil {
		return nil, err
	}
	record.Body = body.Text

	return record, nil
}

// FetchByFormat fetches /api/messages/{id}.{format}. For plain and html the
// result carries the response text with trailing CR/LF stripped; for any
// other format it carries the raw data field.
func (c *Client) FetchByFormat(ctx context.Context, messageID, format string) (*FormatResult, error) {
	result, err := c.apiClient.GetMessageFormat(ctx, messageID, format)
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// FindLatestMessages returns the last n messages in inbox order. It returns
// fewer when the inbox holds fewer, and none when n <= 0.
func (c *Client) FindLatestMessages(ctx context.Context, n int) ([]*Message, error) {
	if n <= 0 {
		return []*Message{}, nil
	}

	all, err := c.collect(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Subset(all, -n, uint(n)), nil
}

// FindMessagesSatisfying returns, in inbox order, the messages for which
// spec is satisfied.
func (c *Client) FindMessagesSatisfying(ctx context.Context, spec Specification) ([]*Message, error) {
	if spec == nil {
		return nil, ErrNilSpecification
	}

	all, err := c.collect(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(all, func(m *Message, _ int) bool {
		return spec.IsSatisfiedBy(m)
	}), nil
}

// GetLastMessage returns the most recent message. It fails with
// ErrNoSuchMessage when the inbox is empty.
func (c *Client) GetLastMessage(ctx context.Context) (*Message, error) {
	latest, err := c.FindLatestMessages(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, &NotFoundError{}
	}
	return latest[0], nil
}

// GetNumberOfMessages counts the messages in the inbox. Every message is
// fetched to do so; this is not a cheap call.
func (c *Client) GetNumberOfMessages(ctx context.Context) (int, error) {
	count := 0
	it := c.Messages()
	for {
		_, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
		count++
	}
}

// DeleteMessage deletes a single message.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return wrapError(c.apiClient.DeleteMessage(ctx, messageID))
}

// PurgeMessages deletes every message in the inbox.
func (c *Client) PurgeMessages(ctx context.Context) error {
	return wrapError(c.apiClient.PurgeMessages(ctx))
}

// GetMessageByID fetches a single message. It fails with ErrNoSuchMessage
// when the server has no message with that id.
func (c *Client) GetMessageByID(ctx context.Context, messageID string) (*Message, error) {
	record, err := c.apiClient.GetMessage(ctx, messageID)
	if errors.Is(err, api.ErrNotFound) {
		return nil, &NotFoundError{MessageID: messageID, Err: wrapError(err)}
	}
	if err != nil {
		return nil, wrapError(err)
	}
	if record == nil {
		return nil, &NotFoundError{MessageID: messageID}
	}
	return newMessageFromRecord(record)
}

// collect materializes the full message sequence.
func (c *Client) collect(ctx context.Context) ([]*Message, error) {
	var messages []*Message
	it := c.Messages()
	for {
		m, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			return messages, nil
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
}
