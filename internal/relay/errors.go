// Package relay implements the core of the notir message relay: the
// single and broadcast session registries, per-session send pipelines,
// and the publish/subscribe dispatcher. Transport concerns (HTTP
// muxing, WebSocket framing, static assets, CLI flags) live outside
// this package and are wired in by internal/transport.
package relay

import "errors"

// Error taxonomy exposed by the core. Transport collaborators map
// these to HTTP status codes; the core never knows about HTTP.
var (
	// ErrBadRequest indicates a malformed or missing id, or a text-typed
	// payload that failed UTF-8 validation.
	ErrBadRequest = errors.New("relay: bad request")

	// ErrNotFound indicates a single publish targeted an id with no
	// registered session, or the session closed between lookup and send.
	ErrNotFound = errors.New("relay: not found")

	// ErrTimeout indicates a ping-pong publish did not receive a reply
	// within the deadline.
	ErrTimeout = errors.New("relay: timeout")

	// ErrBusy indicates a ping-pong publish was attempted against a
	// session that already has a ping-pong reply outstanding.
	ErrBusy = errors.New("relay: busy")

	// ErrClosed indicates the target session is no longer alive.
	ErrClosed = errors.New("relay: session closed")

	// ErrFull indicates the target session's send queue was full; the
	// session is dropped as a side effect (best-effort delivery policy).
	ErrFull = errors.New("relay: send queue full")
)
