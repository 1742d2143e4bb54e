package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Body formats served by /api/messages/{id}.{format}.
const (
	FormatJSON  = "json"
	FormatPlain = "plain"
	FormatHTML  = "html"
)

// MessageID is a server-assigned message id. The server may encode it as a
// JSON number or a JSON string; both decode to the same value.
type MessageID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode message id")
		}
		*id = MessageID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "decode message id")
	}
	*id = MessageID(n.String())
	return nil
}

// String returns the id as sent in URL paths.
func (id MessageID) String() string {
	return string(id)
}

// MessagePage represents one page of GET /api/messages/?page=N.
type MessagePage struct {
	Data []MessageSummary `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// MessageSummary is a list entry of a MessagePage.
type MessageSummary struct {
	ID MessageID `json:"id"`
}

// PageMeta carries the server-driven pagination counters.
type PageMeta struct {
	PagesTotal int `json:"pages_total"`
}

// MessageRecord represents the full message payload returned by
// /api/messages/{id}.json and /api/messages/{id}.
type MessageRecord struct {
	ID                   MessageID           `json:"id"`
	SenderMessage        string              `json:"sender_message"`
	RecipientsMessageTo  []string            `json:"recipients_message_to"`
	RecipientsMessageCc  []string            `json:"recipients_message_cc"`
	RecipientsMessageBcc []string            `json:"recipients_message_bcc"`
	Subject              string              `json:"subject"`
	Body                 string              `json:"body"`
	Attachments          []AttachmentRecord  `json:"attachments"`
	Formats              FormatSet           `json:"formats"`
	Headers              map[string][]string `json:"headers,omitempty"`
}

// HasFormat reports whether the server advertises the given body format.
func (r *MessageRecord) HasFormat(format string) bool {
	_, ok := r.Formats[format]
	return ok
}

// FormatSet is the set of body formats a message advertises. The server
// sends either an object keyed by format or an array of format names.
type FormatSet map[string]struct{}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FormatSet) UnmarshalJSON(data []byte) error {
	set := FormatSet{}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		for _, name := range names {
			set[name] = struct{}{}
		}
		*f = set
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return errors.Wrap(err, "decode formats")
	}
	for name := range keyed {
		set[name] = struct{}{}
	}
	*f = set
	return nil
}

// AttachmentRecord is an attachment descriptor. Unknown fields are kept in Raw.
type AttachmentRecord struct {
	CID      string `json:"cid"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Href     string `json:"href"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AttachmentRecord) UnmarshalJSON(data []byte) error {
	type plain AttachmentRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.Wrap(err, "decode attachment")
	}
	*a = AttachmentRecord(p)
	a.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// FormatResult is the outcome of a format fetch. Text formats fill Text;
// every other format fills Data with the response's data field, and Record
// when that field is a message object.
type FormatResult struct {
	Format string
	Text   string
	Data   json.RawMessage
	Record *MessageRecord
}

// IsText reports whether format is returned as raw text rather than JSON.
func IsText(format string) bool {
	return format == FormatPlain || format == FormatHTML
}

// ReleaseRequest is the body of POST /api/messages/{id}/release.
type ReleaseRequest struct {
	Host  string `json:"Host"`
	Port  string `json:"Port"`
	Email string `json:"Email"`
}

// NewReleaseRequest builds a release body with the port string encoded.
func NewReleaseRequest(host string, port int, email string) ReleaseRequest {
	return ReleaseRequest{
		Host:  host,
		Port:  strconv.Itoa(port),
		Email: email,
	}
}
