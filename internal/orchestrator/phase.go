package orchestrator

// Phase is the orchestrator's position in the item lifecycle.
//
//	┌──────┐ Start  ┌─────────┐ ready   ┌─────────┐
//	│ Idle │ ──────▶│ Loading │ ───────▶│ Active  │
//	└──────┘        └─────────┘         └─────────┘
//	                     │ failed           │ expiry / ended /
//	                     ▼                  │ next / prev / jump
//	                ┌─────────┐             ▼
//	                │ Failed  │ ──────▶ next item (Loading again)
//	                └─────────┘    or
//	                                ┌───────────┐
//	                                │ Completed │  (last item advanced)
//	                                └───────────┘
//
// Failed is an Active-like degraded state: the error fallback is shown
// and the clock runs on the configured duration, so a broken item never
// stalls the sequence. The Transitioning step between items is
// synchronous inside the control loop and never observable, so it has
// no Phase value.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseActive
	PhaseFailed
	PhaseCompleted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseActive:
		return "Active"
	case PhaseFailed:
		return "Failed"
	case PhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Showing reports whether an item is currently on display (ready or
// degraded, clock running).
func (p Phase) Showing() bool {
	return p == PhaseActive || p == PhaseFailed
}
