package adapter

import (
	"image"
	"sync"
	"time"

	// Register the decoders the image adapter accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"

	"github.com/mgoujon/storyline/internal/story"
)

// defaultMaxEdge bounds the decoded bitmap handed to the presentation
// layer. Larger images are thumbnailed to keep the handle cheap to hold
// across the item's display window.
const defaultMaxEdge = 1920

type imageAdapter struct {
	item    story.Item
	fetch   Fetcher
	maxEdge uint
	em      emitter

	mu  sync.Mutex
	img image.Image
}

func newImageAdapter(item story.Item, fetch Fetcher, maxEdge uint) *imageAdapter {
	if maxEdge == 0 {
		maxEdge = defaultMaxEdge
	}
	return &imageAdapter{item: item, fetch: fetch, maxEdge: maxEdge}
}

func (a *imageAdapter) Activate() {
	go a.load()
}

func (a *imageAdapter) load() {
	rc, err := a.fetch.Fetch(a.item.Origin, a.item.Locator)
	if err != nil {
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: err})
		return
	}

	b := img.Bounds()
	if b.Dx() > int(a.maxEdge) || b.Dy() > int(a.maxEdge) {
		img = resize.Thumbnail(a.maxEdge, a.maxEdge, img, resize.Bilinear)
	}

	a.mu.Lock()
	a.img = img
	a.mu.Unlock()
	a.em.fireReady()
}

func (a *imageAdapter) OnReady(fn func())            { a.em.onReady(fn) }
func (a *imageAdapter) OnFailed(fn func(*LoadError)) { a.em.onFailed(fn) }
func (a *imageAdapter) OnEnded(fn func())            { a.em.onEnded(fn) }

func (a *imageAdapter) IntrinsicDuration() (time.Duration, bool) {
	return 0, false
}

func (a *imageAdapter) SetMuted(bool)             {}
func (a *imageAdapter) SetPlaybackState(Playback) {}

func (a *imageAdapter) Release() {
	a.em.release()
	a.mu.Lock()
	a.img = nil
	a.mu.Unlock()
}

func (a *imageAdapter) Kind() story.Kind {
	return a.item.Kind
}

func (a *imageAdapter) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.img == nil {
		return nil
	}
	return a.img
}
