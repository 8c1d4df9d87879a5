package adapter

import "sync"

// emitter enforces the shared callback contract for every adapter kind:
// ready XOR failed, each at most once, nothing after release, and a
// loud panic on double release.
type emitter struct {
	mu       sync.Mutex
	ready    func()
	failed   func(*LoadError)
	ended    func()
	settled  bool // ready or failed already delivered
	released bool
}

func (e *emitter) onReady(fn func()) {
	e.mu.Lock()
	e.ready = fn
	e.mu.Unlock()
}

func (e *emitter) onFailed(fn func(*LoadError)) {
	e.mu.Lock()
	e.failed = fn
	e.mu.Unlock()
}

func (e *emitter) onEnded(fn func()) {
	e.mu.Lock()
	e.ended = fn
	e.mu.Unlock()
}

// fireReady delivers the ready signal. Reports whether it was
// delivered (false when released or already settled).
func (e *emitter) fireReady() bool {
	e.mu.Lock()
	if e.released || e.settled {
		e.mu.Unlock()
		return false
	}
	e.settled = true
	fn := e.ready
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

func (e *emitter) fireFailed(err *LoadError) bool {
	e.mu.Lock()
	if e.released || e.settled {
		e.mu.Unlock()
		return false
	}
	e.settled = true
	fn := e.failed
	e.mu.Unlock()

	if fn != nil {
		fn(err)
	}
	return true
}

func (e *emitter) fireEnded() bool {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return false
	}
	fn := e.ended
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// release silences the emitter permanently. Panics on the second call:
// a double release is a broken one-live-adapter invariant and must
// surface during development, not be swallowed.
func (e *emitter) release() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		panic("adapter: Release called twice on the same instance")
	}
	e.released = true
	e.ready = nil
	e.failed = nil
	e.ended = nil
	e.mu.Unlock()
}

func (e *emitter) isReleased() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}
