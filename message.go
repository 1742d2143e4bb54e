package mailhog

import (
	"encoding/json"
	"net/textproto"
	"slices"
)

// Message represents one captured email. Messages are built by the client
// from server payloads and are not modified afterwards.
type Message struct {
	ID          string
	Sender      Contact
	To          ContactCollection
	Cc          ContactCollection
	Bcc         ContactCollection
	Subject     string
	Body        string
	Attachments []Attachment
	Headers     Headers
}

// Recipients returns the To, Cc and Bcc contacts in that order.
func (m *Message) Recipients() ContactCollection {
	all := make(ContactCollection, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	all = append(all, m.To...)
	all = append(all, m.Cc...)
	return append(all, m.Bcc...)
}

// Attachment is an attachment descriptor as reported by the server.
type Attachment struct {
	CID         string
	ContentType string
	Filename    string
	Size        int64
	Href        string

	// Raw is the descriptor exactly as the server sent it.
	Raw json.RawMessage
}

// Headers maps a header name to its values.
type Headers map[string][]string

// Get returns the first value of the header, or "" if it is absent.
// Lookup is case-insensitive.
func (h Headers) Get(name string) string {
	values := h.Values(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values of the header. Lookup is case-insensitive.
func (h Headers) Values(name string) []string {
	if values, ok := h[name]; ok {
		return values
	}
	canonical := textproto.CanonicalMIMEHeaderKey(name)
	for key, values := range h {
		if textproto.CanonicalMIMEHeaderKey(key) == canonical {
			return values
		}
	}
	return nil
}

// Len returns the number of distinct header names.
func (h Headers) Len() int {
	return len(h)
}

// Equal reports whether h and other hold the same names and values.
// Map insertion order is irrelevant.
func (h Headers) Equal(other Headers) bool {
	if len(h) != len(other) {
		return false
	}
	for name, values := range h {
		otherValues, ok := other[name]
		if !ok || !slices.Equal(values, otherValues) {
			return false
		}
	}
	return true
}
