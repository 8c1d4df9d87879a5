package adapter

import (
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// textAdapter has no source to acquire: it reports ready on the next
// scheduling opportunity, never synchronously from Activate, since the
// orchestrator may still be wiring listeners when Activate returns.
type textAdapter struct {
	item story.Item
	em   emitter
}

func newTextAdapter(item story.Item) *textAdapter {
	return &textAdapter{item: item}
}

func (a *textAdapter) Activate() {
	go a.em.fireReady()
}

func (a *textAdapter) OnReady(fn func())            { a.em.onReady(fn) }
func (a *textAdapter) OnFailed(fn func(*LoadError)) { a.em.onFailed(fn) }
func (a *textAdapter) OnEnded(fn func())            { a.em.onEnded(fn) }

func (a *textAdapter) IntrinsicDuration() (time.Duration, bool) {
	return 0, false
}

func (a *textAdapter) SetMuted(bool)             {}
func (a *textAdapter) SetPlaybackState(Playback) {}

func (a *textAdapter) Release() {
	a.em.release()
}

func (a *textAdapter) Kind() story.Kind {
	return a.item.Kind
}

func (a *textAdapter) Handle() any {
	return a.item.Text()
}
