package adapter

import (
	"sync"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

// Spy is a test double recording the full adapter lifecycle. Tests
// drive readiness, failure and natural end by hand and assert the
// one-live-adapter invariant through the factory's bookkeeping.
type Spy struct {
	item story.Item
	em   emitter

	mu            sync.Mutex
	activateCalls int
	releaseCalls  int
	dur           time.Duration
	hasDur        bool
	muteCalls     []bool
	stateCalls    []Playback
	handle        any
}

// NewSpy creates a spy bound to item.
func NewSpy(item story.Item) *Spy {
	return &Spy{item: item}
}

func (s *Spy) Activate() {
	s.mu.Lock()
	s.activateCalls++
	s.mu.Unlock()
}

func (s *Spy) OnReady(fn func())            { s.em.onReady(fn) }
func (s *Spy) OnFailed(fn func(*LoadError)) { s.em.onFailed(fn) }
func (s *Spy) OnEnded(fn func())            { s.em.onEnded(fn) }

func (s *Spy) IntrinsicDuration() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dur, s.hasDur
}

func (s *Spy) SetMuted(muted bool) {
	s.mu.Lock()
	s.muteCalls = append(s.muteCalls, muted)
	s.mu.Unlock()
}

func (s *Spy) SetPlaybackState(state Playback) {
	s.mu.Lock()
	s.stateCalls = append(s.stateCalls, state)
	s.mu.Unlock()
}

func (s *Spy) Release() {
	s.em.release()
	s.mu.Lock()
	s.releaseCalls++
	s.mu.Unlock()
}

func (s *Spy) Kind() story.Kind { return s.item.Kind }

func (s *Spy) Handle() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Test helpers

// SetIntrinsicDuration makes the spy report d as its natural length.
func (s *Spy) SetIntrinsicDuration(d time.Duration) {
	s.mu.Lock()
	s.dur = d
	s.hasDur = true
	s.mu.Unlock()
}

// SetHandle sets the value returned by Handle.
func (s *Spy) SetHandle(h any) {
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()
}

// FireReady simulates the source becoming interaction-ready.
// Reports whether the signal was delivered.
func (s *Spy) FireReady() bool { return s.em.fireReady() }

// FireFailed simulates a load failure.
func (s *Spy) FireFailed(cause error) bool {
	return s.em.fireFailed(&LoadError{Kind: s.item.Kind, Locator: s.item.Locator, Cause: cause})
}

// FireEnded simulates playback reaching its natural end.
func (s *Spy) FireEnded() bool { return s.em.fireEnded() }

// Activated reports how many times Activate was called.
func (s *Spy) Activated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activateCalls
}

// Released reports how many times Release was called.
func (s *Spy) Released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseCalls
}

// Live reports whether the spy is activated and not yet released.
func (s *Spy) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activateCalls > 0 && s.releaseCalls == 0
}

// MuteCalls returns every SetMuted argument in order.
func (s *Spy) MuteCalls() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.muteCalls))
	copy(out, s.muteCalls)
	return out
}

// StateCalls returns every SetPlaybackState argument in order.
func (s *Spy) StateCalls() []Playback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Playback, len(s.stateCalls))
	copy(out, s.stateCalls)
	return out
}

// Item returns the bound item.
func (s *Spy) Item() story.Item { return s.item }

// Compile-time check that Spy implements Interface.
var _ Interface = (*Spy)(nil)

// SpyFactory creates a Spy per item and keeps every instance for
// lifecycle assertions.
type SpyFactory struct {
	mu      sync.Mutex
	created []*Spy

	// Prepare, when set, is called with each new spy before it is
	// returned (e.g. to preset an intrinsic duration).
	Prepare func(*Spy)
}

func (f *SpyFactory) New(item story.Item) (Interface, error) {
	s := NewSpy(item)
	f.mu.Lock()
	f.created = append(f.created, s)
	f.mu.Unlock()
	if f.Prepare != nil {
		f.Prepare(s)
	}
	return s, nil
}

// Created returns every spy constructed so far, in order.
func (f *SpyFactory) Created() []*Spy {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Spy, len(f.created))
	copy(out, f.created)
	return out
}

// Last returns the most recently constructed spy, or nil.
func (f *SpyFactory) Last() *Spy {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

// LiveCount returns how many spies are activated-but-not-released.
func (f *SpyFactory) LiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.created {
		if s.Live() {
			n++
		}
	}
	return n
}

// Compile-time check that SpyFactory implements Factory.
var _ Factory = (*SpyFactory)(nil)
