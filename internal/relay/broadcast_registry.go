package relay

import "sync"

// BroadcastRegistry maps an id (channel) to the set of sessions
// currently joined to it.
type BroadcastRegistry struct {
	mu       sync.RWMutex
	channels map[string]map[*Session]struct{}
}

// NewBroadcastRegistry returns an empty registry.
func NewBroadcastRegistry() *BroadcastRegistry {
	return &BroadcastRegistry{channels: make(map[string]map[*Session]struct{})}
}

// Join adds session to id's member set, creating the set if absent.
func (r *BroadcastRegistry) Join(id string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.channels[id]
	if !ok {
		set = make(map[*Session]struct{})
		r.channels[id] = set
	}
	set[session] = struct{}{}
}

// Leave removes session from id's member set by identity. If the set
// becomes empty, the key itself is dropped.
func (r *BroadcastRegistry) Leave(id string, session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.channels[id]
	if !ok {
		return
	}
	delete(set, session)
	if len(set) == 0 {
		delete(r.channels, id)
	}
}

// Snapshot returns a point-in-time copy of id's members, safe to
// iterate for dispatch without holding the registry lock -- a slow
// subscriber cannot stall the publish, and a subscriber that leaves
// mid-dispatch is simply skipped.
func (r *BroadcastRegistry) Snapshot(id string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.channels[id]
	if !ok {
		return nil
	}
	out := make([]*Session, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

// Count returns the cardinality of id's member set.
func (r *BroadcastRegistry) Count(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[id])
}

// Len returns the total number of registered sessions across all
// channels (a session joined to multiple channels counts once per
// channel, matching Count's per-channel semantics).
func (r *BroadcastRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, set := range r.channels {
		total += len(set)
	}
	return total
}

// CloseAll closes every registered session across every channel and
// empties the registry. Used on process shutdown.
func (r *BroadcastRegistry) CloseAll() {
	r.mu.Lock()
	var sessions []*Session
	for id, set := range r.channels {
		for s := range set {
			sessions = append(sessions, s)
		}
		delete(r.channels, id)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
