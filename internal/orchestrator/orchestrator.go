// Package orchestrator owns the playback state machine for a story
// session: which item is shown, how much time is left, and when to move
// on. It reconciles three racing event sources — commands, per-item
// adapter callbacks, and the progress clock — on one control loop, so
// the rest of the system needs no locks, only ordering discipline.
package orchestrator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mgoujon/storyline/internal/adapter"
	"github.com/mgoujon/storyline/internal/clock"
	"github.com/mgoujon/storyline/internal/control"
	"github.com/mgoujon/storyline/internal/story"
)

var (
	ErrInvalidIndex   = errors.New("orchestrator: initial index out of range")
	ErrAlreadyStarted = errors.New("orchestrator: already started")
	ErrClosed         = errors.New("orchestrator: closed")
)

// Orchestrator drives one playback session over an immutable sequence.
// Construct with New, feed commands through the control channel, and
// observe transitions through Subscribe.
type Orchestrator struct {
	seq      story.Sequence
	commands *control.Channel
	factory  adapter.Factory
	clockOpt []clock.Option

	events  chan event
	done    chan struct{}
	stopped chan struct{}

	mu          sync.RWMutex
	started     bool
	closed      bool
	index       int
	phase       Phase
	progress    float64
	muted       bool
	unsubscribe func()

	// Loop-owned state: touched only by the control goroutine.
	gen       uint64
	current   adapter.Interface
	clk       *clock.Clock
	completed bool

	subs   []*Subscription
	subsMu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithInitialIndex sets the first item to show. Defaults to 0.
func WithInitialIndex(i int) Option {
	return func(o *Orchestrator) error {
		if !o.seq.InRange(i) {
			return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, i, o.seq.Len())
		}
		o.index = i
		return nil
	}
}

// WithClockOptions forwards options to every per-item progress clock
// (tick granularity, virtual time in tests).
func WithClockOptions(opts ...clock.Option) Option {
	return func(o *Orchestrator) error {
		o.clockOpt = opts
		return nil
	}
}

// New creates an orchestrator in the Idle phase. The sequence and
// initial index are immutable for the session's lifetime.
func New(seq story.Sequence, commands *control.Channel, factory adapter.Factory, opts ...Option) (*Orchestrator, error) {
	if seq.Len() == 0 {
		return nil, story.ErrEmptySequence
	}
	o := &Orchestrator{
		seq:      seq,
		commands: commands,
		factory:  factory,
		events:   make(chan event, 64),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Start enters Loading for the initial index and begins consuming
// commands. It may be called once.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	o.unsubscribe = o.commands.Subscribe(func(cmd control.Command) {
		o.post(evCommand{cmd: cmd})
	})
	o.mu.Unlock()

	go o.run()
	o.post(evStart{})
	return nil
}

// Close tears the session down, releasing any live adapter and clock.
// Idempotent.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	started := o.started
	unsub := o.unsubscribe
	o.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	close(o.done)
	if started {
		<-o.stopped
	} else {
		o.closeSubs()
	}
	return nil
}

// CurrentIndex returns the index of the item on display.
func (o *Orchestrator) CurrentIndex() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.index
}

// Phase returns the current lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// Progress returns the current item's normalized progress in [0, 1].
func (o *Orchestrator) Progress() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.progress
}

// Muted reports the session mute state.
func (o *Orchestrator) Muted() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.muted
}

// Status returns the command channel's play/pause status.
func (o *Orchestrator) Status() control.Status {
	return o.commands.Status()
}

// Subscribe creates a new event subscription.
func (o *Orchestrator) Subscribe() *Subscription {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	sub := newSubscription()
	o.subs = append(o.subs, sub)
	return sub
}

// Internal events. Adapter and clock signals carry the generation of
// the activation that produced them; the loop drops events whose
// generation is stale. An index check alone would not do: jumpTo can
// return to an index whose adapter was already replaced once.
type event interface{}

type (
	evStart   struct{}
	evCommand struct{ cmd control.Command }
	evReady   struct{ gen uint64 }
	evFailed  struct {
		gen uint64
		err *adapter.LoadError
	}
	evEnded   struct{ gen uint64 }
	evExpired struct{ gen uint64 }
	evTick    struct {
		gen      uint64
		progress float64
	}
)

func (o *Orchestrator) post(e event) {
	select {
	case o.events <- e:
	case <-o.done:
	}
}

func (o *Orchestrator) run() {
	defer close(o.stopped)
	for {
		select {
		case <-o.done:
			o.teardown()
			return
		case e := <-o.events:
			o.dispatch(e)
		}
	}
}

func (o *Orchestrator) dispatch(e event) {
	switch e := e.(type) {
	case evStart:
		o.transition(o.index, signalNone)
	case evCommand:
		o.handleCommand(e.cmd)
	case evReady:
		o.handleReady(e.gen)
	case evFailed:
		o.handleFailed(e.gen, e.err)
	case evEnded:
		o.handleAdvanceSignal(e.gen)
	case evExpired:
		o.handleAdvanceSignal(e.gen)
	case evTick:
		o.handleTick(e.gen, e.progress)
	}
}

// signalKind selects which outbound notification a transition raises.
type signalKind int

const (
	signalNone signalKind = iota
	signalIndex
	signalReturned
)

// transition is the atomic handoff to item `to`. The teardown order is
// the load-bearing part: (1) stop the clock, (2) silence and (3)
// release the outgoing adapter — release detaches its listeners — and
// only then (4) construct the next adapter. Reordering these reopens
// the stray-callback bug class where a just-replaced item's completion
// advances the new one.
func (o *Orchestrator) transition(to int, sig signalKind) {
	o.stopClock()
	o.releaseCurrent()
	o.gen++
	o.completed = false

	prevIndex := o.index
	prevPhase := o.phase
	o.setSnapshot(to, PhaseLoading, 0)

	switch sig {
	case signalIndex:
		o.publish(func(s *Subscription) { s.sendIndex(IndexChange{Previous: prevIndex, Index: to}) })
	case signalReturned:
		o.publish(func(s *Subscription) { s.sendReturned() })
	}
	if prevPhase != PhaseLoading {
		o.publishPhase(prevPhase, PhaseLoading)
	}

	item := o.seq.At(to)
	a, err := o.factory.New(item)
	if err != nil {
		o.publish(func(s *Subscription) {
			s.sendError(ErrorEvent{Operation: "activate", Index: to, Err: err})
		})
		o.enterFailed(item)
		return
	}

	g := o.gen
	a.OnReady(func() { o.post(evReady{gen: g}) })
	a.OnFailed(func(e *adapter.LoadError) { o.post(evFailed{gen: g, err: e}) })
	a.OnEnded(func() { o.post(evEnded{gen: g}) })
	o.current = a
	a.Activate()
}

func (o *Orchestrator) handleReady(gen uint64) {
	if gen != o.gen || o.Phase() != PhaseLoading || o.current == nil {
		return
	}
	item := o.seq.At(o.CurrentIndex())

	d, ok := o.current.IntrinsicDuration()
	if !ok {
		d = item.Duration
	}

	o.current.SetMuted(o.Muted() || item.MuteByDefault)

	// Arm the clock before announcing Active so an observer of the new
	// phase can already rely on the countdown being live.
	o.startClock(d)
	if o.commands.Status() == control.StatusPaused {
		o.clk.Pause()
		o.current.SetPlaybackState(adapter.Paused)
	} else {
		o.current.SetPlaybackState(adapter.Playing)
	}

	prev := o.swapPhase(PhaseActive)
	o.publishPhase(prev, PhaseActive)
	o.publish(func(s *Subscription) {
		s.sendAdapter(AdapterChange{Kind: o.current.Kind(), Handle: o.current.Handle()})
	})
}

func (o *Orchestrator) handleFailed(gen uint64, loadErr *adapter.LoadError) {
	if gen != o.gen || o.Phase() != PhaseLoading {
		return
	}
	idx := o.CurrentIndex()
	o.publish(func(s *Subscription) {
		s.sendError(ErrorEvent{Operation: "load", Index: idx, Err: loadErr})
	})
	o.enterFailed(o.seq.At(idx))
}

// enterFailed is the degraded Active-like state: fallback on display,
// clock running on the configured duration so the sequence never
// stalls on a broken item.
func (o *Orchestrator) enterFailed(item story.Item) {
	o.startClock(item.Duration)
	if o.commands.Status() == control.StatusPaused {
		o.clk.Pause()
	}

	prev := o.swapPhase(PhaseFailed)
	o.publishPhase(prev, PhaseFailed)
	o.publish(func(s *Subscription) {
		s.sendAdapter(AdapterChange{Kind: item.Kind, Handle: item.Fallback})
	})
}

// handleAdvanceSignal serves both clock expiry and natural media end:
// whichever arrives first wins, the loser is dropped by generation
// because the transition replaces it.
func (o *Orchestrator) handleAdvanceSignal(gen uint64) {
	if gen != o.gen || !o.Phase().Showing() {
		return
	}
	o.advance()
}

func (o *Orchestrator) advance() {
	next := o.CurrentIndex() + 1
	if next < o.seq.Len() {
		o.transition(next, signalIndex)
		return
	}
	o.complete()
}

func (o *Orchestrator) complete() {
	o.stopClock()
	o.releaseCurrent()
	o.gen++

	prev := o.phaseAndProgress(PhaseCompleted, 1)
	o.publishPhase(prev, PhaseCompleted)
	if !o.completed {
		o.completed = true
		o.publish(func(s *Subscription) { s.sendCompleted() })
	}
}

func (o *Orchestrator) handleTick(gen uint64, p float64) {
	if gen != o.gen || !o.Phase().Showing() {
		return
	}
	o.mu.Lock()
	if p < o.progress {
		// Progress is monotonic within one item.
		p = o.progress
	}
	o.progress = p
	o.mu.Unlock()
	o.publish(func(s *Subscription) { s.sendProgress(ProgressChange{Progress: p}) })
}

func (o *Orchestrator) handleCommand(cmd control.Command) {
	switch cmd.Action {
	case control.ActionPlay:
		if o.clk != nil {
			o.clk.Resume()
		}
		if o.current != nil && o.Phase() == PhaseActive {
			o.current.SetPlaybackState(adapter.Playing)
		}
	case control.ActionPause:
		if o.clk != nil {
			o.clk.Pause()
		}
		if o.current != nil && o.Phase() == PhaseActive {
			o.current.SetPlaybackState(adapter.Paused)
		}
	case control.ActionNext:
		if o.Phase() == PhaseIdle || o.Phase() == PhaseCompleted {
			return
		}
		o.advance()
	case control.ActionPrevious:
		o.handlePrevious()
	case control.ActionJumpTo:
		if !o.seq.InRange(cmd.Index) {
			return
		}
		sig := signalIndex
		if cmd.Index == o.CurrentIndex() {
			sig = signalNone
		}
		o.transition(cmd.Index, sig)
	case control.ActionMute:
		o.setMuted(true)
	case control.ActionUnmute:
		// Explicit unmute overrides the item's MuteByDefault for the
		// rest of its display window.
		o.setMuted(false)
	}
}

func (o *Orchestrator) handlePrevious() {
	if o.Phase() == PhaseIdle {
		return
	}
	idx := o.CurrentIndex()
	if idx == 0 {
		// Already at the first item: restart it and say so, rather
		// than decrementing below range.
		o.transition(0, signalReturned)
		return
	}
	o.transition(idx-1, signalIndex)
}

func (o *Orchestrator) setMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.mu.Unlock()
	if o.current != nil {
		o.current.SetMuted(muted)
	}
}

func (o *Orchestrator) startClock(d time.Duration) {
	c := clock.New(o.clockOpt...)
	g := o.gen
	c.OnTick(func(p float64) { o.post(evTick{gen: g, progress: p}) })
	c.OnExpire(func() { o.post(evExpired{gen: g}) })
	o.clk = c
	c.Start(d)
}

func (o *Orchestrator) stopClock() {
	if o.clk != nil {
		o.clk.Reset()
		o.clk = nil
	}
}

func (o *Orchestrator) releaseCurrent() {
	if o.current != nil {
		cur := o.current
		o.current = nil
		cur.Release()
	}
}

func (o *Orchestrator) teardown() {
	o.stopClock()
	o.releaseCurrent()
	o.closeSubs()
}

func (o *Orchestrator) closeSubs() {
	o.subsMu.Lock()
	for _, sub := range o.subs {
		sub.close()
	}
	o.subs = nil
	o.subsMu.Unlock()
}

// Snapshot helpers: the loop owns the values, the RWMutex makes them
// readable from any goroutine.

func (o *Orchestrator) setSnapshot(index int, phase Phase, progress float64) {
	o.mu.Lock()
	o.index = index
	o.phase = phase
	o.progress = progress
	o.mu.Unlock()
}

func (o *Orchestrator) swapPhase(p Phase) (prev Phase) {
	o.mu.Lock()
	prev = o.phase
	o.phase = p
	o.mu.Unlock()
	return prev
}

func (o *Orchestrator) phaseAndProgress(p Phase, progress float64) (prev Phase) {
	o.mu.Lock()
	prev = o.phase
	o.phase = p
	o.progress = progress
	o.mu.Unlock()
	return prev
}

func (o *Orchestrator) publish(send func(*Subscription)) {
	o.subsMu.Lock()
	for _, sub := range o.subs {
		send(sub)
	}
	o.subsMu.Unlock()
}

func (o *Orchestrator) publishPhase(prev, cur Phase) {
	if prev == cur {
		return
	}
	o.publish(func(s *Subscription) {
		s.sendPhase(PhaseChange{Previous: prev, Current: cur})
	})
}
