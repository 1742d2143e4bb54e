package api

import (
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog"
)

// traceTransport is an http.RoundTripper that logs a dump of every request
// and response at trace level while delegating the real work to another
// http.RoundTripper.
type traceTransport struct {
	delegate http.RoundTripper
	logger   zerolog.Logger
}

// RoundTrip logs the request and response dumps around the delegate call.
func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		t.logger.Trace().Bytes("dump", dump).Msg("mailhog request dump")
	}

	resp, err := t.delegate.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		t.logger.Trace().Bytes("dump", dump).Msg("mailhog response dump")
	}
	return resp, nil
}

// WrapTrace returns d wrapped in a tracing transport. A nil d wraps
// http.DefaultTransport.
func WrapTrace(d http.RoundTripper, logger zerolog.Logger) http.RoundTripper {
	if d == nil {
		d = http.DefaultTransport
	}
	return &traceTransport{delegate: d, logger: logger}
}
