package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ListMessages fetches one zero-based page of message summaries.
func (c *Client) ListMessages(ctx context.Context, page int) (*MessagePage, error) {
	var result MessagePage
	if err := c.getJSON(ctx, fmt.Sprintf("/api/messages/?page=%d", page), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMessageFormat fetches /api/messages/{id}.{format}. Text formats are
// returned with trailing CR/LF stripped; any other format is decoded as JSON
// and its data field returned as is. The json format, or any data object,
// is also decoded into a MessageRecord.
func (c *Client) GetMessageFormat(ctx context.Context, id, format string) (*FormatResult, error) {
	path := fmt.Sprintf("/api/messages/%s.%s", url.PathEscape(id), url.PathEscape(format))

	if IsText(format) {
		data, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		return &FormatResult{
			Format: format,
			Text:   strings.TrimRight(string(data), "\r\n"),
		}, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errors.Errorf("response of %s has no data", path)
	}

	result := &FormatResult{
		Format: format,
		Data:   envelope.Data,
	}
	if format == FormatJSON || data[0] == '{' {
		var record MessageRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, errors.Wrapf(err, "decode data of %s", path)
		}
		result.Record = &record
	}
	return result, nil
}

// GetMessage fetches /api/messages/{id}. A null or empty payload returns a
// nil record and no error.
func (c *Client) GetMessage(ctx context.Context, id string) (*MessageRecord, error) {
	path := fmt.Sprintf("/api/messages/%s", url.PathEscape(id))
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result *MessageRecord
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrapf(err, "decode response of %s", path)
	}
	return result, nil
}

// DeleteMessage deletes a single message. The response body is ignored.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/messages/%s", url.PathEscape(id))
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// PurgeMessages deletes every message in the inbox.
func (c *Client) PurgeMessages(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/messages/", nil)
	return err
}

// ReleaseMessage asks the server to forward a message to an SMTP host.
func (c *Client) ReleaseMessage(ctx context.Context, id string, req ReleaseRequest) error {
	path := fmt.Sprintf("/api/messages/%s/release", url.PathEscape(id))
	_, err := c.do(ctx, http.MethodPost, path, req)
	return err
}
