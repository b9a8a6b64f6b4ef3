package relay

import "sync"

// pendingSlot is the one-shot ping-pong reply waiter described in spec
// §3/§4.3: at most one installed at a time per single session.
type pendingSlot struct {
	mu sync.Mutex
	ch chan Payload
}

// install creates and installs a fresh one-shot reply channel, or
// returns ErrBusy if one is already installed.
func (p *pendingSlot) install() (chan Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		return nil, ErrBusy
	}
	ch := make(chan Payload, 1)
	p.ch = ch
	return ch, nil
}

// fulfill delivers payload to the installed waiter, if any, and clears
// the slot. Returns false if no waiter was installed, in which case the
// caller should treat the frame as stray traffic to discard.
func (p *pendingSlot) fulfill(payload Payload) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return false
	}
	ch := p.ch
	p.ch = nil
	select {
	case ch <- payload:
	default:
	}
	return true
}

// clear uninstalls the waiter if it is still the one identified by ch
// (guards against a concurrent fulfill winning the race).
func (p *pendingSlot) clear(ch chan Payload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == ch {
		p.ch = nil
	}
}

// closeAll resolves any installed waiter with a closed channel, waking
// callers blocked in RequestReply with ErrClosed. Called during session
// teardown.
func (p *pendingSlot) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		close(p.ch)
		p.ch = nil
	}
}
