package mailhog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeMessage is a message held by fakeMailhog. An empty Plain or HTML means
// that format is not advertised.
type fakeMessage struct {
	ID          string
	Sender      string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Plain       string
	HTML        string
	Attachments []map[string]any
	Headers     map[string][]string
}

// fakeMailhog is an in-memory stand-in for the Mailhog message API.
type fakeMailhog struct {
	t *testing.T

	mu        sync.Mutex
	messages  []fakeMessage
	perPage   int
	requests  []string
	released  []map[string]string
	failPage  int // page number answered with 500, -1 for none
	onListing func(page int)

	server *httptest.Server
}

func newFakeMailhog(t *testing.T, messages ...fakeMessage) *fakeMailhog {
	t.Helper()

	f := &fakeMailhog{
		t:        t,
		messages: messages,
		perPage:  25,
		failPage: -1,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeMailhog) client(t *testing.T, opts ...Option) *Client {
	t.Helper()

	client, err := New(f.server.URL+"/", opts...)
	require.NoError(t, err)
	return client
}

func (f *fakeMailhog) add(m fakeMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
}

func (f *fakeMailhog) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeMailhog) countRequests(prefix string) int {
	n := 0
	for _, r := range f.requestLog() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeMailhog) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
	f.mu.Unlock()

	rest, ok := strings.CutPrefix(r.URL.Path, "/api/messages/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		f.handleList(w, r)
	case rest == "" && r.Method == http.MethodDelete:
		f.mu.Lock()
		f.messages = nil
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(rest, "/release") && r.Method == http.MethodPost:
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.released = append(f.released, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case strings.Contains(rest, "."):
		id, format, _ := strings.Cut(rest, ".")
		f.handleFormat(w, id, format)
	case r.Method == http.MethodDelete:
		f.mu.Lock()
		for i, m := range f.messages {
			if m.ID == rest {
				f.messages = append(f.messages[:i], f.messages[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		m, found := f.find(rest)
		if !found {
			io.WriteString(w, "null")
			return
		}
		record := f.record(m)
		record["body"] = m.Plain
		if m.Plain == "" {
			record["body"] = m.HTML
		}
		json.NewEncoder(w).Encode(record)
	}
}

func (f *fakeMailhog) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}

	if f.onListing != nil {
		f.onListing(page)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if page == f.failPage {
		http.Error(w, `{"error":"listing failed"}`, http.StatusInternalServerError)
		return
	}

	total := (len(f.messages) + f.perPage - 1) / f.perPage
	data := []map[string]any{}
	for i := page * f.perPage; i < len(f.messages) && i < (page+1)*f.perPage; i++ {
		data = append(data, map[string]any{"id": f.messages[i].ID})
	}

	json.NewEncoder(w).Encode(map[string]any{
		"data": data,
		"meta": map[string]any{"pages_total": total},
	})
}

func (f *fakeMailhog) handleFormat(w http.ResponseWriter, id, format string) {
	m, found := f.find(id)
	if !found {
		http.NotFound(w, nil)
		return
	}

	switch format {
	case "plain":
		io.WriteString(w, m.Plain+"\r\n")
	case "html":
		io.WriteString(w, m.HTML+"\n")
	case "json":
		json.NewEncoder(w).Encode(map[string]any{"data": f.record(m)})
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusNotFound)
	}
}

func (f *fakeMailhog) find(id string) (fakeMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			return m, true
		}
	}
	return fakeMessage{}, false
}

func (f *fakeMailhog) record(m fakeMessage) map[string]any {
	formats := map[string]any{}
	if m.Plain != "" {
		formats["plain"] = map[string]any{}
	}
	if m.HTML != "" {
		formats["html"] = map[string]any{}
	}

	nonNil := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	attachments := m.Attachments
	if attachments == nil {
		attachments = []map[string]any{}
	}

	return map[string]any{
		"id":                     m.ID,
		"sender_message":         m.Sender,
		"recipients_message_to":  nonNil(m.To),
		"recipients_message_cc":  nonNil(m.Cc),
		"recipients_message_bcc": nonNil(m.Bcc),
		"subject":                m.Subject,
		"attachments":            attachments,
		"formats":                formats,
		"headers":                m.Headers,
	}
}

// plainMessages returns n plain-text messages with ids "1".."n".
func plainMessages(n int) []fakeMessage {
	messages := make([]fakeMessage, 0, n)
	for i := 1; i <= n; i++ {
		messages = append(messages, fakeMessage{
			ID:      strconv.Itoa(i),
			Sender:  "sender@example.com",
			To:      []string{fmt.Sprintf("user%d@example.com", i)},
			Subject: fmt.Sprintf("Message %d", i),
			Plain:   fmt.Sprintf("Body %d", i),
		})
	}
	return messages
}

func messageIDs(messages []*Message) []string {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// requestFor matches an *http.Request by method and request URI.
func requestFor(method, requestURI string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		req, ok := x.(*http.Request)
		return ok && req.Method == method && req.URL.RequestURI() == requestURI
	})
}
