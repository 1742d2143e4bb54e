package mailhog

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/rpkamp/mailhog-client-go/internal/api"
)

// MessageIterator walks the inbox page by page. Pages and message bodies are
// requested only when Next needs them, so a caller that stops early never
// fetches the unread pages.
//
// A MessageIterator is not safe for concurrent use and cannot be restarted;
// call Client.Messages again for a fresh traversal.
type MessageIterator struct {
	client *Client

	currentPage int // next page to request
	totalPages  int // pages_total of the most recent page
	started     bool
	buffer      []api.MessageSummary
	err         error
}

func newMessageIterator(c *Client) *MessageIterator {
	return &MessageIterator{client: c}
}

// Next returns the next message. It returns io.EOF once every page has been
// consumed. Any other error ends the traversal and is returned again by
// every later call.
func (it *MessageIterator) Next(ctx context.Context) (*Message, error) {
	if it.err != nil {
		return nil, it.err
	}

	for len(it.buffer) == 0 {
		if it.started && it.currentPage >= it.totalPages {
			it.err = io.EOF
			return nil, it.err
		}
		if err := it.fetchPage(ctx); err != nil {
			it.err = err
			return nil, err
		}
	}

	summary := it.buffer[0]
	it.buffer = it.buffer[1:]

	record, err := it.client.FetchMetadata(ctx, summary.ID.String())
	if err != nil {
		it.err = err
		return nil, err
	}

	message, err := newMessageFromRecord(record)
	if err != nil {
		it.err = err
		return nil, err
	}
	return message, nil
}

// Page returns the number of pages requested so far.
func (it *MessageIterator) Page() int {
	return it.currentPage
}

func (it *MessageIterator) fetchPage(ctx context.Context) error {
	page, err := it.client.apiClient.ListMessages(ctx, it.currentPage)
	if err != nil {
		return wrapError(err)
	}

	it.client.logger.Debug().
		Int("page", it.currentPage).
		Int("pages_total", page.Meta.PagesTotal).
		Int("messages", len(page.Data)).
		Msg("fetched message page")

	it.started = true
	it.currentPage++
	it.totalPages = page.Meta.PagesTotal
	it.buffer = page.Data
	return nil
}

// All returns a range-over-func sequence of every message in the inbox.
// A failure is yielded once as a nil message with a non-nil error, after
// which the sequence ends. Breaking out of the loop stops all fetching.
//
// Example:
//
//	for m, err := range client.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(m.Subject)
//	}
func (c *Client) All(ctx context.Context) iter.Seq2[*Message, error] {
	return func(yield func(*Message, error) bool) {
		it := c.Messages()
		for {
			m, err := it.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(m, err) || err != nil {
				return
			}
		}
	}
}
