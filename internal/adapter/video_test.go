package adapter

import (
	"errors"
	"testing"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// scriptedBackend lets tests control readiness, end and failure.
type scriptedBackend struct {
	ready   chan struct{}
	ended   chan struct{}
	err     chan error
	openErr error
	dur     time.Duration
}

func newScriptedBackend() *scriptedBackend {
	return &scriptedBackend{
		ready: make(chan struct{}),
		ended: make(chan struct{}),
		err:   make(chan error, 1),
	}
}

func (b *scriptedBackend) Open(story.Origin, string) error { return b.openErr }
func (b *scriptedBackend) Play()                           {}
func (b *scriptedBackend) Pause()                          {}
func (b *scriptedBackend) SetMuted(bool)                   {}
func (b *scriptedBackend) Duration() time.Duration         { return b.dur }
func (b *scriptedBackend) Ready() <-chan struct{}          { return b.ready }
func (b *scriptedBackend) Ended() <-chan struct{}          { return b.ended }
func (b *scriptedBackend) Err() <-chan error               { return b.err }
func (b *scriptedBackend) Close() error                    { return nil }

func videoItem() story.Item {
	return story.Item{Kind: story.KindVideo, Locator: "/v.mp4", Duration: 5 * time.Second}
}

func TestVideoAdapter_ResolvesIntrinsicDurationOnReady(t *testing.T) {
	b := newScriptedBackend()
	b.dur = 8 * time.Second
	a := newVideoAdapter(videoItem(), b)

	if _, ok := a.IntrinsicDuration(); ok {
		t.Fatal("duration resolvable before ready")
	}

	ready := make(chan struct{}, 1)
	a.OnReady(func() { ready <- struct{}{} })
	a.Activate()
	close(b.ready)

	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ready")
	}

	d, ok := a.IntrinsicDuration()
	if !ok || d != 8*time.Second {
		t.Fatalf("IntrinsicDuration() = %v/%v, want 8s/true", d, ok)
	}

	a.Release()
}

func TestVideoAdapter_BackendErrorFails(t *testing.T) {
	b := newScriptedBackend()
	a := newVideoAdapter(videoItem(), b)

	failed := make(chan *LoadError, 1)
	a.OnFailed(func(e *LoadError) { failed <- e })
	a.Activate()
	b.err <- errors.New("codec init failed")

	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for failure")
	}
	a.Release()
}

func TestVideoAdapter_EndedForwardedAfterReady(t *testing.T) {
	b := newScriptedBackend()
	a := newVideoAdapter(videoItem(), b)

	ready := make(chan struct{}, 1)
	ended := make(chan struct{}, 1)
	a.OnReady(func() { ready <- struct{}{} })
	a.OnEnded(func() { ended <- struct{}{} })
	a.Activate()

	close(b.ready)
	<-ready
	close(b.ended)

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ended")
	}
	a.Release()
}

func TestVideoAdapter_ReleaseBeforeReadySilencesBackend(t *testing.T) {
	b := newScriptedBackend()
	a := newVideoAdapter(videoItem(), b)

	fired := make(chan string, 2)
	a.OnReady(func() { fired <- "ready" })
	a.OnEnded(func() { fired <- "ended" })
	a.Activate()

	a.Release()
	close(b.ready)
	close(b.ended)

	select {
	case sig := <-fired:
		t.Fatalf("signal %q delivered after release", sig)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNopVideoBackend_ReadyOnOpen(t *testing.T) {
	b := NewNopVideoBackend()
	if err := b.Open(story.OriginFile, "/v.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	select {
	case <-b.Ready():
	default:
		t.Fatal("nop backend not ready after Open")
	}
	if b.Duration() != 0 {
		t.Error("nop backend must not report an intrinsic duration")
	}
}
