// Package story defines the immutable data model for a story session:
// the per-item descriptor and the ordered sequence the orchestrator
// plays through.
package story

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the media type of an item.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
	KindAudio
	KindText
	KindWeb
	KindCustom
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindText:
		return "text"
	case KindWeb:
		return "web"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Origin identifies where an item's source is fetched from.
type Origin int

const (
	OriginNetwork Origin = iota
	OriginFile
	OriginAsset
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginNetwork:
		return "network"
	case OriginFile:
		return "file"
	case OriginAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// ViewFactory builds the host-supplied view for a custom item.
// The returned value is opaque to the orchestrator and handed to the
// presentation layer through the adapter handle.
type ViewFactory func() any

var (
	ErrMissingLocator = errors.New("story: item requires a source locator")
	ErrMissingView    = errors.New("story: custom item requires a view factory")
	ErrNoDuration     = errors.New("story: item requires a positive duration")
)

// Item describes one entry of a story sequence. Items are value types
// and are never mutated after construction.
type Item struct {
	Kind    Kind
	Locator string // url, path or asset name; unused for custom items
	Origin  Origin

	// Duration is the display duration used when the adapter reports
	// no intrinsic duration (images, text, web, custom, and media whose
	// length cannot be resolved).
	Duration time.Duration

	// MuteByDefault seeds the initial mute state for video/audio items.
	MuteByDefault bool

	// Meta carries kind-specific configuration, opaque to the
	// orchestrator (e.g. "text" for text items, fit hints for images).
	Meta map[string]any

	// Fallback is an optional host-supplied handle rendered when the
	// item fails to load. Opaque to the orchestrator.
	Fallback any

	// View builds the content for custom items. Required when
	// Kind == KindCustom, ignored otherwise.
	View ViewFactory
}

// Validate checks the per-kind construction invariants.
func (it Item) Validate() error {
	if it.Kind == KindCustom {
		if it.View == nil {
			return ErrMissingView
		}
	} else if it.Locator == "" {
		return ErrMissingLocator
	}

	// Video and audio may resolve an intrinsic duration at load time;
	// every other kind depends entirely on the configured one.
	switch it.Kind {
	case KindVideo, KindAudio:
	default:
		if it.Duration <= 0 {
			return fmt.Errorf("%w (kind %s)", ErrNoDuration, it.Kind)
		}
	}
	return nil
}

// Text returns the display text for text items: the "text" meta entry
// when present, the locator otherwise.
func (it Item) Text() string {
	if s, ok := it.Meta["text"].(string); ok && s != "" {
		return s
	}
	return it.Locator
}
