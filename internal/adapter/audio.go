package adapter

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"

	"github.com/mgoujon/storyline/internal/story"
)

// AudioHandle is the presentation-facing view of a live audio item.
type AudioHandle struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// audioAdapter decodes mp3/flac sources, resolves the intrinsic
// duration from the decoded stream length, and plays through the
// shared speaker. Natural end of the stream fires the ended signal.
type audioAdapter struct {
	item  story.Item
	fetch Fetcher
	spk   Speaker
	em    emitter

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	dur      time.Duration
	handle   *AudioHandle
	muted    bool
	paused   bool
}

func newAudioAdapter(item story.Item, fetch Fetcher, spk Speaker) *audioAdapter {
	return &audioAdapter{item: item, fetch: fetch, spk: spk}
}

func (a *audioAdapter) Activate() {
	go a.load()
}

func (a *audioAdapter) load() {
	rc, err := a.fetch.Fetch(a.item.Origin, a.item.Locator)
	if err != nil {
		a.fail(err)
		return
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		a.fail(err)
		return
	}

	handle := &AudioHandle{Title: filepath.Base(a.item.Locator)}
	if meta, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		if meta.Title() != "" {
			handle.Title = meta.Title()
		}
		handle.Artist = meta.Artist()
		handle.Album = meta.Album()
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(a.item.Locator)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case ".flac":
		streamer, format, err = flac.Decode(bytes.NewReader(data))
	default:
		err = fmt.Errorf("unsupported audio format: %s", ext)
	}
	if err != nil {
		a.fail(err)
		return
	}

	if err := a.spk.Init(format.SampleRate, bufferFor(format.SampleRate)); err != nil {
		streamer.Close()
		a.fail(err)
		return
	}

	handle.Duration = format.SampleRate.D(streamer.Len())

	a.mu.Lock()
	if a.em.isReleased() {
		// Released mid-load: finish the in-flight work silently.
		a.mu.Unlock()
		streamer.Close()
		return
	}
	a.streamer = streamer
	a.ctrl = &beep.Ctrl{Streamer: streamer, Paused: a.paused}
	a.vol = &effects.Volume{Streamer: a.ctrl, Base: 2, Silent: a.muted}
	a.dur = handle.Duration
	a.handle = handle
	a.spk.Play(beep.Seq(a.vol, beep.Callback(func() {
		a.em.fireEnded()
	})))
	a.mu.Unlock()

	a.em.fireReady()
}

func (a *audioAdapter) fail(cause error) {
	a.em.fireFailed(&LoadError{Kind: a.item.Kind, Locator: a.item.Locator, Cause: cause})
}

func (a *audioAdapter) OnReady(fn func())            { a.em.onReady(fn) }
func (a *audioAdapter) OnFailed(fn func(*LoadError)) { a.em.onFailed(fn) }
func (a *audioAdapter) OnEnded(fn func())            { a.em.onEnded(fn) }

func (a *audioAdapter) IntrinsicDuration() (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dur, a.dur > 0
}

func (a *audioAdapter) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted = muted
	if a.vol != nil {
		a.spk.Lock()
		a.vol.Silent = muted
		a.spk.Unlock()
	}
}

func (a *audioAdapter) SetPlaybackState(state Playback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = state == Paused
	if a.ctrl != nil {
		a.spk.Lock()
		a.ctrl.Paused = a.paused
		a.spk.Unlock()
	}
}

func (a *audioAdapter) Release() {
	a.em.release()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.streamer != nil {
		a.spk.Clear()
		a.streamer.Close()
		a.streamer = nil
	}
	a.ctrl = nil
	a.vol = nil
	a.handle = nil
}

func (a *audioAdapter) Kind() story.Kind {
	return a.item.Kind
}

func (a *audioAdapter) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.handle == nil {
		return nil
	}
	return a.handle
}
