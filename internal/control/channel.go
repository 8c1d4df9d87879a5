package control

import "sync"

// Channel is a minimal observable for commands. Accepted commands are
// dispatched synchronously to every subscriber, in subscription order,
// before Emit returns. There is no batching and no goroutine hop, so a
// caller observes all side effects of its own Emit.
type Channel struct {
	mu        sync.Mutex
	length    int
	status    Status
	nextID    int
	listeners []listener
}

type listener struct {
	id int
	fn func(Command)
}

// NewChannel creates a channel for a sequence of the given length.
// The initial status is playing.
func NewChannel(length int) *Channel {
	return &Channel{length: length, status: StatusPlaying}
}

// Status returns the current play/pause status.
func (c *Channel) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Subscribe registers a listener and returns its unsubscribe func.
// The unsubscribe func is idempotent.
func (c *Channel) Subscribe(fn func(Command)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit validates and dispatches cmd. Rejected commands (out-of-range
// jumpTo, play/pause matching the current status) are dropped without
// notifying anyone.
func (c *Channel) Emit(cmd Command) {
	c.mu.Lock()
	switch cmd.Action {
	case ActionJumpTo:
		if cmd.Index < 0 || cmd.Index >= c.length {
			c.mu.Unlock()
			return
		}
	case ActionPlay:
		if c.status == StatusPlaying {
			c.mu.Unlock()
			return
		}
		c.status = StatusPlaying
	case ActionPause:
		if c.status == StatusPaused {
			c.mu.Unlock()
			return
		}
		c.status = StatusPaused
	}

	// Dispatch against a snapshot, outside the lock, so listeners may
	// emit or subscribe reentrantly.
	snapshot := make([]listener, len(c.listeners))
	copy(snapshot, c.listeners)
	c.mu.Unlock()

	for _, l := range snapshot {
		l.fn(cmd)
	}
}
