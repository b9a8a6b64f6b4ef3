package relay

import "time"

// Config holds the tunables of the session pipeline and dispatcher.
// internal/config is responsible for populating this from flags, env,
// and an optional YAML file; relay itself has no notion of any of
// those sources.
type Config struct {
	// SendQueueSize bounds each session's outbound channel. Full queues
	// cause the receiver to be dropped.
	SendQueueSize int

	// HeartbeatInterval is how often the heartbeat task pings a live
	// session.
	HeartbeatInterval time.Duration

	// HeartbeatGrace is how long a ping may go unacknowledged before the
	// session is considered dead.
	HeartbeatGrace time.Duration

	// PingPongTimeout is the hard deadline on a ping-pong publish.
	PingPongTimeout time.Duration
}

// DefaultConfig returns sane tunables for the session pipeline: a
// small outbound queue bound, a 30s/60s heartbeat cadence, and a 5s
// ping-pong deadline.
func DefaultConfig() Config {
	return Config{
		SendQueueSize:     16,
		HeartbeatInterval: 30 * time.Second,
		HeartbeatGrace:    60 * time.Second,
		PingPongTimeout:   5 * time.Second,
	}
}
