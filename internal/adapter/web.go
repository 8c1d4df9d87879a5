package adapter

import (
	"io"
	"sync"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// webAdapter acquires an embedded-web document and hands the raw body
// to the presentation layer as its handle. Rendering is the host's
// concern.
type webAdapter struct {
	item  story.Item
	fetch Fetcher
	em    emitter

	mu   sync.Mutex
	body []byte
}

func newWebAdapter(item story.Item, fetch Fetcher) *webAdapter {
	return &webAdapter{item: item, fetch: fetch}
}

func (a *webAdapter) Activate() {
	go a.load()
}

func (a *webAdapter) load() {
	rc, err := a.fetch.Fetch(a.item.Origin, a.item.Locator)
	if err != nil {
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	}

	a.mu.Lock()
	a.body = body
	a.mu.Unlock()
	a.em.fireReady()
}

func (a *webAdapter) OnReady(fn func())            { a.em.onReady(fn) }
func (a *webAdapter) OnFailed(fn func(*LoadError)) { a.em.onFailed(fn) }
func (a *webAdapter) OnEnded(fn func())            { a.em.onEnded(fn) }

func (a *webAdapter) IntrinsicDuration() (time.Duration, bool) {
	return 0, false
}

func (a *webAdapter) SetMuted(bool)             {}
func (a *webAdapter) SetPlaybackState(Playback) {}

func (a *webAdapter) Release() {
	a.em.release()
	a.mu.Lock()
	a.body = nil
	a.mu.Unlock()
}

func (a *webAdapter) Kind() story.Kind {
	return a.item.Kind
}

func (a *webAdapter) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.body == nil {
		return nil
	}
	return a.body
}
