package relay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

// Topology distinguishes the two delivery topologies a session
// participates in.
type Topology int

const (
	// SingleTopology sessions are point-to-point: at most one per id.
	SingleTopology Topology = iota
	// BroadcastTopology sessions join a channel of arbitrary cardinality.
	BroadcastTopology
)

// Session represents one live WebSocket together with its pipeline
// tasks. It is always referenced through a pointer; pointer identity
// is how registries distinguish "this session" from "whatever
// replaced it" when removing or leaving.
type Session struct {
	id       string
	topology Topology
	sock     Socket
	cfg      Config

	send    chan Payload
	pending pendingSlot
	alive   atomic.Bool

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// onTerminate is invoked exactly once, after teardown completes, so
	// the dispatcher can remove the session from its registry using
	// identity-compare. It is nil in tests that exercise a bare session.
	onTerminate func(*Session)
}

// NewSession constructs a session bound to sock. Run must be called to
// start its pipeline tasks.
func NewSession(id string, topology Topology, sock Socket, cfg Config, onTerminate func(*Session)) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:          id,
		topology:    topology,
		sock:        sock,
		cfg:         cfg,
		send:        make(chan Payload, cfg.SendQueueSize),
		ctx:         ctx,
		cancel:      cancel,
		onTerminate: onTerminate,
	}
	s.alive.Store(true)
	return s
}

// ID returns the id this session is registered under.
func (s *Session) ID() string { return s.id }

// Topology returns whether this is a single or broadcast session.
func (s *Session) Topology() Topology { return s.topology }

// Alive reports whether the session is still considered live.
func (s *Session) Alive() bool { return s.alive.Load() }

// Run starts the writer, reader, and heartbeat tasks and blocks until
// all three have exited, then tears the session down. Call it in its
// own goroutine; it is not meant to be awaited by the caller that
// upgraded the connection.
func (s *Session) Run(parent context.Context) {
	// Cancelling parent cancels the session's own context; a session
	// already closed before Run starts exits at once.
	stop := context.AfterFunc(parent, s.cancel)
	defer stop()

	group, gctx := errgroup.WithContext(s.ctx)
	group.Go(func() error { return s.writeLoop(gctx) })
	group.Go(func() error { return s.readLoop(gctx) })
	group.Go(func() error { return s.heartbeatLoop(gctx) })

	if err := group.Wait(); err != nil {
		slog.Debug("session pipeline exited", "id", s.id, "error", err)
	}
	s.teardown()
}

// Close forcibly terminates the session. Safe to call concurrently
// with Run and more than once; only the first call has effect.
func (s *Session) Close() {
	s.teardown()
}

func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		s.alive.Store(false)
		if s.cancel != nil {
			s.cancel()
		}
		s.pending.closeAll()
		_ = s.sock.Close("session closed")
		if s.onTerminate != nil {
			s.onTerminate(s)
		}
	})
}

// writeLoop is the exclusive owner of the socket's write half. It
// drains send until the pipeline context is cancelled.
func (s *Session) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-s.send:
			if err := s.sock.Write(ctx, payload.Kind, payload.Data); err != nil {
				return err
			}
		}
	}
}

// readLoop's behavior depends on topology: single sessions feed
// inbound frames to a waiting ping-pong reply slot; broadcast sessions
// are read-only and discard everything.
func (s *Session) readLoop(ctx context.Context) error {
	if s.topology == BroadcastTopology {
		return s.sock.DiscardReads(ctx)
	}

	for {
		kind, data, err := s.sock.Read(ctx)
		if err != nil {
			return err
		}
		payload := Payload{Kind: kind, Data: data}
		if !s.pending.fulfill(payload) {
			// No ping-pong waiter installed: this is a heartbeat token
			// or other stray client traffic. Consumed silently, not
			// logged, not delivered anywhere.
		}
	}
}

// heartbeatLoop pings the peer on a fixed interval and tears the
// session down if a ping round-trip doesn't complete within the grace
// window.
func (s *Session) heartbeatLoop(ctx context.Context) error {
	ticks := channerics.NewTicker(ctx.Done(), s.cfg.HeartbeatInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			pingCtx, cancel := context.WithTimeout(ctx, s.cfg.HeartbeatGrace)
			err := s.sock.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// TrySend is the non-blocking enqueue the dispatcher uses for both shot
// publishes and broadcast fan-out. ErrClosed means the session is
// already dead; ErrFull means the queue was full and, per the
// drop-the-receiver policy, the session has now been closed as a side
// effect of this call.
func (s *Session) TrySend(payload Payload) error {
	if !s.alive.Load() {
		return ErrClosed
	}
	select {
	case s.send <- payload:
		return nil
	default:
		s.teardown()
		return ErrFull
	}
}

// RequestReply implements single ping-pong publish: install a one-shot
// reply slot, enqueue payload, and wait up to timeout for the
// subscriber's next inbound frame. If ctx is cancelled first (e.g. the
// publisher's HTTP request was abandoned), the wait ends early but the
// session itself is left untouched.
func (s *Session) RequestReply(ctx context.Context, payload Payload, timeout time.Duration) (Payload, error) {
	if !s.alive.Load() {
		return Payload{}, ErrClosed
	}

	ch, err := s.pending.install()
	if err != nil {
		return Payload{}, err
	}

	if err := s.TrySend(payload); err != nil {
		s.pending.clear(ch)
		return Payload{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case reply, ok := <-ch:
		if !ok {
			return Payload{}, ErrClosed
		}
		return reply, nil
	case <-waitCtx.Done():
		s.pending.clear(ch)
		return Payload{}, ErrTimeout
	}
}
