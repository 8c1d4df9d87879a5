// Package clock provides the cancellable countdown driving item
// advancement: normalized progress from 0 to 1 over wall-clock time,
// pause/resume preserving the elapsed fraction, and a single expiry
// signal per start cycle.
package clock

import (
	"sync"
	"time"
)

// Timer is the cancellable handle returned by a TimerFunc.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules f to run once after d. The default is
// time.AfterFunc; tests substitute a virtual scheduler.
type TimerFunc func(d time.Duration, f func()) Timer

// DefaultTickInterval is the granularity of progress callbacks.
const DefaultTickInterval = 50 * time.Millisecond

// Clock counts down one duration at a time. All methods are safe for
// concurrent use; callbacks fire on the scheduler's goroutine, never
// synchronously inside Start/Pause/Resume/Reset.
type Clock struct {
	mu        sync.Mutex
	now       func() time.Time
	after     TimerFunc
	tickEvery time.Duration

	onExpire func()
	onTick   func(progress float64)

	// seq invalidates outstanding timer callbacks: it is bumped by
	// every Start/Pause/Resume/Reset and by expiry itself, so a timer
	// scheduled before any of those can never fire against the new
	// state. This is what bounds expiry to at most once per cycle.
	seq uint64

	duration  time.Duration
	elapsed   time.Duration // accumulated across completed run segments
	startedAt time.Time     // start of the current run segment
	running   bool
	armed     bool // Start called, expiry not yet fired or reset
	expired   bool

	expiry Timer
	tick   Timer
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow substitutes the wall-clock source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// WithTimerFunc substitutes the timer factory.
func WithTimerFunc(after TimerFunc) Option {
	return func(c *Clock) { c.after = after }
}

// WithTickInterval sets the progress callback granularity.
// A non-positive interval disables ticks; expiry still fires.
func WithTickInterval(d time.Duration) Option {
	return func(c *Clock) { c.tickEvery = d }
}

// New creates a stopped clock.
func New(opts ...Option) *Clock {
	c := &Clock{
		now:       time.Now,
		after:     func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		tickEvery: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnExpire registers the expiry callback. Register before Start.
func (c *Clock) OnExpire(fn func()) {
	c.mu.Lock()
	c.onExpire = fn
	c.mu.Unlock()
}

// OnTick registers the periodic progress callback. Register before Start.
func (c *Clock) OnTick(fn func(progress float64)) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Start begins a new countdown over d, discarding any previous cycle.
// A zero or negative duration expires on the next scheduling
// opportunity rather than synchronously, so the caller can finish
// wiring listeners before the signal lands.
func (c *Clock) Start(d time.Duration) {
	c.mu.Lock()
	c.seq++
	c.stopTimersLocked()
	c.duration = d
	c.elapsed = 0
	c.expired = false
	c.armed = true
	c.running = true
	c.startedAt = c.now()
	c.scheduleExpiryLocked()
	c.scheduleTickLocked()
	c.mu.Unlock()
}

// Pause freezes progress, preserving the elapsed fraction. No-op when
// not running.
func (c *Clock) Pause() {
	c.mu.Lock()
	if !c.running || !c.armed {
		c.mu.Unlock()
		return
	}
	c.elapsed += c.now().Sub(c.startedAt)
	c.seq++
	c.stopTimersLocked()
	c.running = false
	c.mu.Unlock()
}

// Resume continues a paused countdown with a fresh deadline of
// now + remaining. No-op when running, expired or reset.
func (c *Clock) Resume() {
	c.mu.Lock()
	if c.running || !c.armed {
		c.mu.Unlock()
		return
	}
	c.seq++
	c.startedAt = c.now()
	c.running = true
	c.scheduleExpiryLocked()
	c.scheduleTickLocked()
	c.mu.Unlock()
}

// Reset cancels any pending expiry and returns progress to 0.
func (c *Clock) Reset() {
	c.mu.Lock()
	c.seq++
	c.stopTimersLocked()
	c.armed = false
	c.expired = false
	c.running = false
	c.elapsed = 0
	c.duration = 0
	c.mu.Unlock()
}

// Progress returns the normalized elapsed fraction in [0, 1].
func (c *Clock) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

// Remaining returns the wall-clock time left before expiry.
func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expired || !c.armed {
		return 0
	}
	r := c.duration - c.elapsedLocked()
	if r < 0 {
		r = 0
	}
	return r
}

// Running reports whether the countdown is advancing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Clock) progressLocked() float64 {
	if c.expired {
		return 1
	}
	if c.duration <= 0 {
		return 0
	}
	p := float64(c.elapsedLocked()) / float64(c.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (c *Clock) elapsedLocked() time.Duration {
	e := c.elapsed
	if c.running {
		e += c.now().Sub(c.startedAt)
	}
	return e
}

func (c *Clock) stopTimersLocked() {
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
	if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
	}
}

func (c *Clock) scheduleExpiryLocked() {
	s := c.seq
	remaining := c.duration - c.elapsed
	if remaining < 0 {
		remaining = 0
	}
	c.expiry = c.after(remaining, func() { c.fireExpire(s) })
}

func (c *Clock) scheduleTickLocked() {
	if c.tickEvery <= 0 {
		return
	}
	s := c.seq
	c.tick = c.after(c.tickEvery, func() { c.fireTick(s) })
}

func (c *Clock) fireExpire(s uint64) {
	c.mu.Lock()
	if c.seq != s {
		c.mu.Unlock()
		return
	}
	c.seq++
	c.stopTimersLocked()
	c.armed = false
	c.running = false
	c.expired = true
	c.elapsed = c.duration
	onTick := c.onTick
	onExpire := c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(1)
	}
	if onExpire != nil {
		onExpire()
	}
}

func (c *Clock) fireTick(s uint64) {
	c.mu.Lock()
	if c.seq != s || !c.running {
		c.mu.Unlock()
		return
	}
	p := c.progressLocked()
	onTick := c.onTick
	c.scheduleTickLocked()
	c.mu.Unlock()

	if onTick != nil {
		onTick(p)
	}
}
