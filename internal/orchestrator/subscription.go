package orchestrator

const eventBufferSize = 16

// Subscription provides event channels for one subscriber. Sends are
// non-blocking: a subscriber that stops draining loses events rather
// than stalling the control loop.
type Subscription struct {
	IndexChanged    <-chan IndexChange
	ReturnedToStart <-chan struct{}
	Completed       <-chan struct{}
	AdapterChanged  <-chan AdapterChange
	PhaseChanged    <-chan PhaseChange
	ProgressChanged <-chan ProgressChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	indexCh    chan IndexChange
	returnedCh chan struct{}
	completeCh chan struct{}
	adapterCh  chan AdapterChange
	phaseCh    chan PhaseChange
	progressCh chan ProgressChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		indexCh:    make(chan IndexChange, eventBufferSize),
		returnedCh: make(chan struct{}, eventBufferSize),
		completeCh: make(chan struct{}, eventBufferSize),
		adapterCh:  make(chan AdapterChange, eventBufferSize),
		phaseCh:    make(chan PhaseChange, eventBufferSize),
		progressCh: make(chan ProgressChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.IndexChanged = s.indexCh
	s.ReturnedToStart = s.returnedCh
	s.Completed = s.completeCh
	s.AdapterChanged = s.adapterCh
	s.PhaseChanged = s.phaseCh
	s.ProgressChanged = s.progressCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals the subscriber to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendIndex(e IndexChange) {
	select {
	case s.indexCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendReturned() {
	select {
	case s.returnedCh <- struct{}{}:
	default:
	}
}

func (s *Subscription) sendCompleted() {
	select {
	case s.completeCh <- struct{}{}:
	default:
	}
}

func (s *Subscription) sendAdapter(e AdapterChange) {
	select {
	case s.adapterCh <- e:
	default:
	}
}

func (s *Subscription) sendPhase(e PhaseChange) {
	select {
	case s.phaseCh <- e:
	default:
	}
}

func (s *Subscription) sendProgress(e ProgressChange) {
	select {
	case s.progressCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
