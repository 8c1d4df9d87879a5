// Package clocktest provides a virtual scheduler for driving clocks in
// tests without wall-clock waits.
package clocktest

import (
	"sync"
	"time"

	"github.com/mgoujon/storyline/internal/clock"
)

// Scheduler is a deterministic time source and timer factory. Timers
// fire synchronously inside Advance, in deadline order.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
}

type timer struct {
	at      time.Time
	fn      func()
	stopped bool
}

func (t *timer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewScheduler creates a scheduler at an arbitrary fixed epoch.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Unix(1000, 0)}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// After schedules fn to run once d after the current virtual time.
// It satisfies clock.TimerFunc.
func (s *Scheduler) After(d time.Duration, fn func()) clock.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	t := &timer{at: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves virtual time forward and fires every due timer,
// including timers scheduled by the callbacks themselves.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
	for {
		t := s.popDue()
		if t == nil {
			return
		}
		t.fn()
	}
}

func (s *Scheduler) popDue() *timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := -1
	for i, t := range s.timers {
		if t.stopped || t.at.After(s.now) {
			continue
		}
		if best == -1 || t.at.Before(s.timers[best].at) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	t := s.timers[best]
	t.stopped = true
	return t
}
