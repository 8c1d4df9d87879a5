// Package adapter wraps the type-specific load/playback primitive for
// each story item kind behind one event contract, so the orchestrator
// treats all kinds uniformly. An adapter instance is bound to exactly
// one item for its whole lifetime: activate once, release once.
package adapter

import (
	"fmt"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// Playback is the adapter-level play/pause control state.
type Playback int

const (
	Playing Playback = iota
	Paused
)

// Interface is the contract every media kind implements.
//
// Callbacks must be registered before Activate. Each of ready/failed
// fires at most once per instance and they are mutually exclusive; no
// callback fires after Release. Activation work runs asynchronously;
// Activate itself never blocks on I/O and never fires a callback
// synchronously.
type Interface interface {
	// Activate begins acquisition (decode/open/connect).
	Activate()

	// OnReady fires when the first frame/content is interaction-ready.
	OnReady(fn func())

	// OnFailed fires when the source cannot be acquired.
	OnFailed(fn func(*LoadError))

	// OnEnded fires when intrinsic playback reaches its natural end
	// (video/audio only; never fires for other kinds).
	OnEnded(fn func())

	// IntrinsicDuration reports the media's natural length when the
	// kind has one and it has been resolved. ok is false otherwise and
	// the caller falls back to the item's configured duration.
	IntrinsicDuration() (d time.Duration, ok bool)

	// SetMuted and SetPlaybackState are idempotent; no-ops for kinds
	// without an audio/video channel.
	SetMuted(muted bool)
	SetPlaybackState(state Playback)

	// Release tears the adapter down: unregisters listeners and frees
	// underlying resources. Must be called exactly once, is safe even
	// if activation never completed, and panics when called twice
	// (a double release means the one-live-adapter invariant broke).
	Release()

	// Kind returns the bound item's kind.
	Kind() story.Kind

	// Handle exposes the live underlying resource for a presentation
	// layer (decoded image, audio handle, backend, text, body bytes).
	// Nil until ready.
	Handle() any
}

// LoadError reports a failed acquisition. It is absorbed by the
// orchestrator into a degraded state, never propagated as fatal.
type LoadError struct {
	Kind    story.Kind
	Locator string
	Cause   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("adapter: load %s %q: %v", e.Kind, e.Locator, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
