package adapter

import (
	"fmt"

	"github.com/mgoujon/storyline/internal/story"
)

// Factory constructs the adapter for one item. The orchestrator never
// inspects item kinds beyond this dispatch.
type Factory interface {
	New(item story.Item) (Interface, error)
}

type factory struct {
	fetch   Fetcher
	spk     Speaker
	video   func() VideoBackend
	maxEdge uint
}

// FactoryOption configures the default factory.
type FactoryOption func(*factory)

// WithFetcher substitutes the source fetcher.
func WithFetcher(f Fetcher) FactoryOption {
	return func(fa *factory) { fa.fetch = f }
}

// WithSpeaker substitutes the audio sink.
func WithSpeaker(s Speaker) FactoryOption {
	return func(fa *factory) { fa.spk = s }
}

// WithVideoBackend sets the constructor for per-item video backends.
func WithVideoBackend(newBackend func() VideoBackend) FactoryOption {
	return func(fa *factory) { fa.video = newBackend }
}

// WithMaxImageEdge bounds decoded image dimensions.
func WithMaxImageEdge(px uint) FactoryOption {
	return func(fa *factory) { fa.maxEdge = px }
}

// NewFactory builds the default factory: HTTP/file/asset fetching,
// system speaker, no-op video backend.
func NewFactory(opts ...FactoryOption) Factory {
	f := &factory{
		fetch: &DefaultFetcher{},
		spk:   &SystemSpeaker{},
		video: func() VideoBackend { return NewNopVideoBackend() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *factory) New(item story.Item) (Interface, error) {
	switch item.Kind {
	case story.KindImage:
		return newImageAdapter(item, f.fetch, f.maxEdge), nil
	case story.KindVideo:
		return newVideoAdapter(item, f.video()), nil
	case story.KindAudio:
		return newAudioAdapter(item, f.fetch, f.spk), nil
	case story.KindText:
		return newTextAdapter(item), nil
	case story.KindWeb:
		return newWebAdapter(item, f.fetch), nil
	case story.KindCustom:
		return newCustomAdapter(item), nil
	default:
		return nil, fmt.Errorf("adapter: no adapter for kind %d", int(item.Kind))
	}
}
