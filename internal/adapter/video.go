package adapter

import (
	"sync"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// VideoBackend is the platform codec binding, supplied by the host.
// Open runs asynchronously; the backend signals readiness, natural end
// and errors over its channels. After Close the backend must stop
// signalling, though in-flight work may finish silently.
type VideoBackend interface {
	Open(origin story.Origin, locator string) error
	Play()
	Pause()
	SetMuted(muted bool)
	Duration() time.Duration
	Ready() <-chan struct{}
	Ended() <-chan struct{}
	Err() <-chan error
	Close() error
}

// videoAdapter owns the orchestration contract around a backend:
// exactly-once ready/failed, ended forwarding, and release discipline.
type videoAdapter struct {
	item    story.Item
	backend VideoBackend
	em      emitter
	done    chan struct{}

	mu    sync.Mutex
	ready bool
}

func newVideoAdapter(item story.Item, backend VideoBackend) *videoAdapter {
	return &videoAdapter{item: item, backend: backend, done: make(chan struct{})}
}

func (a *videoAdapter) Activate() {
	go a.open()
}

func (a *videoAdapter) open() {
	if err := a.backend.Open(a.item.Origin, a.item.Locator); err != nil {
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	}

	select {
	case <-a.backend.Ready():
		a.mu.Lock()
		a.ready = true
		a.mu.Unlock()
		a.em.fireReady()
	case err := <-a.backend.Err():
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	case <-a.done:
		return
	}

	select {
	case <-a.backend.Ended():
		a.em.fireEnded()
	case <-a.done:
	}
}

func (a *videoAdapter) OnReady(fn func())            { a.em.onReady(fn) }
func (a *videoAdapter) OnFailed(fn func(*LoadError)) { a.em.onFailed(fn) }
func (a *videoAdapter) OnEnded(fn func())            { a.em.onEnded(fn) }

func (a *videoAdapter) IntrinsicDuration() (time.Duration, bool) {
	a.mu.Lock()
	ready := a.ready
	a.mu.Unlock()
	if !ready {
		return 0, false
	}
	d := a.backend.Duration()
	return d, d > 0
}

func (a *videoAdapter) SetMuted(muted bool) {
	a.backend.SetMuted(muted)
}

func (a *videoAdapter) SetPlaybackState(state Playback) {
	if state == Paused {
		a.backend.Pause()
		return
	}
	a.backend.Play()
}

func (a *videoAdapter) Release() {
	a.em.release()
	close(a.done)
	_ = a.backend.Close()
}

func (a *videoAdapter) Kind() story.Kind {
	return a.item.Kind
}

func (a *videoAdapter) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return nil
	}
	return a.backend
}

// NopVideoBackend is the fallback for hosts without a codec binding:
// it reports ready immediately, resolves no intrinsic duration (the
// configured duration applies) and never ends on its own.
type NopVideoBackend struct {
	ready chan struct{}
	ended chan struct{}
	err   chan error
	once  sync.Once
}

// NewNopVideoBackend creates a backend that loads instantly.
func NewNopVideoBackend() *NopVideoBackend {
	return &NopVideoBackend{
		ready: make(chan struct{}),
		ended: make(chan struct{}),
		err:   make(chan error, 1),
	}
}

func (b *NopVideoBackend) Open(story.Origin, string) error {
	b.once.Do(func() { close(b.ready) })
	return nil
}

func (b *NopVideoBackend) Play()                   {}
func (b *NopVideoBackend) Pause()                  {}
func (b *NopVideoBackend) SetMuted(bool)           {}
func (b *NopVideoBackend) Duration() time.Duration { return 0 }

func (b *NopVideoBackend) Ready() <-chan struct{} { return b.ready }
func (b *NopVideoBackend) Ended() <-chan struct{} { return b.ended }
func (b *NopVideoBackend) Err() <-chan error      { return b.err }

func (b *NopVideoBackend) Close() error { return nil }
