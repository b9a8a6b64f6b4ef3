package relay

import "context"

// Socket is the minimal surface the core needs from a live WebSocket
// connection. The transport layer is an external collaborator; this
// interface is the contract the core exposes to it. internal/transport
// supplies the concrete implementation backed by
// github.com/coder/websocket.
type Socket interface {
	// Read blocks for the next inbound frame. It returns the frame kind,
	// its bytes, and an error on close or I/O failure. Errors are
	// permanent: the caller must tear down the session.
	Read(ctx context.Context) (Kind, []byte, error)

	// Write sends one frame. Errors are permanent.
	Write(ctx context.Context, kind Kind, data []byte) error

	// Ping sends a transport-level ping and waits for the peer to
	// acknowledge it (or for ctx to expire).
	Ping(ctx context.Context) error

	// Close tears down the underlying connection with the given reason.
	// Safe to call more than once.
	Close(reason string) error

	// DiscardReads spins a background reader that replies to control
	// frames and drops all data frames, returning once the peer closes
	// or ctx is cancelled. Used by broadcast sessions, which are
	// read-only.
	DiscardReads(ctx context.Context) error
}
