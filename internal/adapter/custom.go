package adapter

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// customAdapter invokes the host-supplied view factory and exposes its
// result as the handle. The factory runs off the control thread; a
// panicking factory is reported as a load failure, not a crash.
type customAdapter struct {
	item story.Item
	em   emitter

	mu   sync.Mutex
	view any
}

func newCustomAdapter(item story.Item) *customAdapter {
	return &customAdapter{item: item}
}

func (a *customAdapter) Activate() {
	go a.build()
}

func (a *customAdapter) build() {
	if a.item.View == nil {
		a.em.fireFailed(&LoadError{
			Kind:    a.item.Kind,
			Locator: a.item.Locator,
			Cause:   story.ErrMissingView,
		})
		return
	}

	view, err := a.callFactory()
	if err != nil {
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	}

	a.mu.Lock()
	a.view = view
	a.mu.Unlock()
	a.em.fireReady()
}

func (a *customAdapter) callFactory() (view any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("view factory panicked: %v", r)
		}
	}()
	view = a.item.View()
	if view == nil {
		return nil, errors.New("view factory returned nil")
	}
	return view, nil
}

func (a *customAdapter) OnReady(fn func())            { a.em.onReady(fn) }
func (a *customAdapter) OnFailed(fn func(*LoadError)) { a.em.onFailed(fn) }
func (a *customAdapter) OnEnded(fn func())            { a.em.onEnded(fn) }

func (a *customAdapter) IntrinsicDuration() (time.Duration, bool) {
	return 0, false
}

func (a *customAdapter) SetMuted(bool)             {}
func (a *customAdapter) SetPlaybackState(Playback) {}

func (a *customAdapter) Release() {
	a.em.release()
	a.mu.Lock()
	a.view = nil
	a.mu.Unlock()
}

func (a *customAdapter) Kind() story.Kind {
	return a.item.Kind
}

func (a *customAdapter) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}
