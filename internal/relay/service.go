package relay

import (
	"context"
	"log/slog"
)

// Mode selects the single-publish delivery variant.
type Mode int

const (
	// Shot is fire-and-forget: the publish returns once the payload is
	// enqueued, not once it is delivered.
	Shot Mode = iota
	// PingPong turns the publish into a synchronous request/response:
	// the HTTP call blocks for the subscriber's next inbound frame.
	PingPong
)

// Service is the publish dispatcher: it owns both registries and is
// the single entry point transport collaborators use to validate,
// route, and deliver publishes, and to register new subscribers.
type Service struct {
	single    *SingleRegistry
	broadcast *BroadcastRegistry
	cfg       Config
}

// NewService constructs a dispatcher over fresh, empty registries.
func NewService(cfg Config) *Service {
	return &Service{
		single:    NewSingleRegistry(),
		broadcast: NewBroadcastRegistry(),
		cfg:       cfg,
	}
}

// Config returns the pipeline tunables this service was built with.
func (svc *Service) Config() Config { return svc.cfg }

// SubscribeSingle validates id, builds a session bound to sock, and
// installs it in the single registry, replacing and closing whatever
// session was previously registered under id. The caller is
// responsible for starting session.Run in its own goroutine once
// upgrade has fully completed.
func (svc *Service) SubscribeSingle(id string, sock Socket) (*Session, error) {
	if id == "" {
		return nil, ErrBadRequest
	}

	session := NewSession(id, SingleTopology, sock, svc.cfg, svc.onSingleTerminate)
	prior := svc.single.Insert(id, session)
	if prior != nil {
		slog.Info("single subscriber replaced", "id", id)
		prior.Close()
	}
	return session, nil
}

// SubscribeBroadcast validates id, builds a session bound to sock, and
// joins it to id's member set.
func (svc *Service) SubscribeBroadcast(id string, sock Socket) (*Session, error) {
	if id == "" {
		return nil, ErrBadRequest
	}

	session := NewSession(id, BroadcastTopology, sock, svc.cfg, svc.onBroadcastTerminate)
	svc.broadcast.Join(id, session)
	return session, nil
}

// PublishSingle validates id, looks up the single session registered
// under id, and delivers per mode. payload is taken as already decoded
// (see DecodePayload).
func (svc *Service) PublishSingle(ctx context.Context, id string, mode Mode, payload Payload) (Payload, error) {
	if id == "" {
		return Payload{}, ErrBadRequest
	}

	session, ok := svc.single.Get(id)
	if !ok {
		return Payload{}, ErrNotFound
	}

	switch mode {
	case PingPong:
		reply, err := session.RequestReply(ctx, payload, svc.cfg.PingPongTimeout)
		switch err {
		case nil:
			return reply, nil
		case ErrClosed:
			return Payload{}, ErrNotFound
		default:
			// ErrTimeout, ErrBusy and ErrFull pass through unchanged.
			return Payload{}, err
		}

	default: // Shot
		err := session.TrySend(payload)
		switch err {
		case nil, ErrFull:
			// Full is still 200 OK: the payload is dropped and the slow
			// receiver is dropped as a side effect, but delivery was
			// attempted in good faith.
			return Payload{}, nil
		case ErrClosed:
			return Payload{}, ErrNotFound
		default:
			return Payload{}, err
		}
	}
}

// PublishBroadcast validates id, then fans the already decoded payload
// out to every session currently joined to id. Per-subscriber failures are
// swallowed; the call always succeeds.
func (svc *Service) PublishBroadcast(id string, payload Payload) error {
	if id == "" {
		return ErrBadRequest
	}

	for _, session := range svc.broadcast.Snapshot(id) {
		// Errors (ErrClosed, ErrFull) are swallowed: broadcast is
		// best-effort and always returns success to the publisher.
		_ = session.TrySend(payload)
	}
	return nil
}

// ConnectionCount returns the number of live sessions registered under
// id across both registries.
func (svc *Service) ConnectionCount(id string) int {
	return svc.single.Count(id) + svc.broadcast.Count(id)
}

// TotalConnections returns the number of live sessions across every id
// and both registries, used by the health endpoint.
func (svc *Service) TotalConnections() int {
	return svc.single.Len() + svc.broadcast.Len()
}

// Close tears down every session in both registries. Used on process
// shutdown.
func (svc *Service) Close() {
	svc.single.CloseAll()
	svc.broadcast.CloseAll()
}

func (svc *Service) onSingleTerminate(session *Session) {
	svc.single.RemoveIf(session.ID(), session)
}

func (svc *Service) onBroadcastTerminate(session *Session) {
	svc.broadcast.Leave(session.ID(), session)
}
