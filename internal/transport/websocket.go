// Package transport wires the relay core (internal/relay) to HTTP:
// it upgrades WebSocket connections, maps publish requests onto the
// dispatcher, and serves the embedded browser UI. None of this is
// part of the core's contract; it is the core's external collaborator.
package transport

import (
	"context"
	"fmt"

	"github.com/coder/websocket"

	"github.com/timzaak/notir/internal/relay"
)

// maxFrameBytes bounds inbound WebSocket frame size. It is generous
// relative to typical relay payloads but prevents unbounded memory use
// from a misbehaving client.
const maxFrameBytes = 1 << 20 // 1 MiB

// wsSocket adapts a *websocket.Conn to relay.Socket.
type wsSocket struct {
	conn *websocket.Conn
}

// newWSSocket wraps conn, applying the relay's read-size limit.
func newWSSocket(conn *websocket.Conn) *wsSocket {
	conn.SetReadLimit(maxFrameBytes)
	return &wsSocket{conn: conn}
}

func (s *wsSocket) Read(ctx context.Context) (relay.Kind, []byte, error) {
	typ, data, err := s.conn.Read(ctx)
	if err != nil {
		return 0, nil, err
	}
	return fromWireType(typ), data, nil
}

func (s *wsSocket) Write(ctx context.Context, kind relay.Kind, data []byte) error {
	return s.conn.Write(ctx, toWireType(kind), data)
}

func (s *wsSocket) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *wsSocket) Close(reason string) error {
	return s.conn.Close(websocket.StatusNormalClosure, reason)
}

// DiscardReads reads and drops every inbound frame until the peer
// closes the connection or ctx is cancelled -- the behavior broadcast
// subscribers need since they are read-only. conn.Read keeps replying
// to control frames (ping/close) on the caller's behalf.
func (s *wsSocket) DiscardReads(ctx context.Context) error {
	for {
		if _, _, err := s.conn.Read(ctx); err != nil {
			return fmt.Errorf("discard reads: %w", err)
		}
	}
}

func toWireType(kind relay.Kind) websocket.MessageType {
	if kind == relay.Text {
		return websocket.MessageText
	}
	return websocket.MessageBinary
}

func fromWireType(typ websocket.MessageType) relay.Kind {
	if typ == websocket.MessageText {
		return relay.Text
	}
	return relay.Binary
}
