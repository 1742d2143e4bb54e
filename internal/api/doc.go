// Package api provides the HTTP wire layer for the Mailhog message API.
// It builds requests, decodes JSON and text payloads, and converts non-2xx
// responses into typed errors.
//
// # Transport
//
// Requests are sent through a [Doer], which *http.Client satisfies. Tests
// and callers can substitute their own implementation with [WithDoer].
//
// # Error Handling
//
// A response with a status outside 2xx becomes an [*APIError]. A failure to
// reach the server becomes a [*NetworkError]. Neither is retried.
//
//	if errors.Is(err, api.ErrNotFound) {
//	    // Handle missing message
//	}
//
// # Thread Safety
//
// The [Client] holds only immutable configuration. It is safe for concurrent
// use whenever its [Doer] is.
package api
