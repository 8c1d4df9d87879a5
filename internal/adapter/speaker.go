package adapter

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Speaker abstracts the audio sink so tests run without a sound card.
// The process owns a single sink; the one-live-adapter invariant is
// what keeps two items from fighting over it.
type Speaker interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

// SystemSpeaker plays through the platform audio device. The device is
// initialized once per process, at the sample rate of the first item
// that reaches it.
type SystemSpeaker struct {
	mu          sync.Mutex
	initialized bool
}

func (s *SystemSpeaker) Init(sampleRate beep.SampleRate, bufferSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *SystemSpeaker) Play(streamers ...beep.Streamer) {
	speaker.Play(streamers...)
}

func (s *SystemSpeaker) Lock()   { speaker.Lock() }
func (s *SystemSpeaker) Unlock() { speaker.Unlock() }
func (s *SystemSpeaker) Clear()  { speaker.Clear() }

// bufferFor returns the speaker buffer size the audio adapter requests:
// a tenth of a second, the same latency/underrun trade-off as any
// interactive player.
func bufferFor(sampleRate beep.SampleRate) int {
	return sampleRate.N(time.Second / 10)
}
