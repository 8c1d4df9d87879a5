package orchestrator

import "github.com/mgoujon/storyline/internal/story"

// IndexChange is emitted when the displayed item changes.
//
// NOT emitted by:
//   - previous at index 0: that raises ReturnedToStart instead
//   - jumpTo targeting the current index: the item restarts in place
type IndexChange struct {
	Previous int
	Index    int
}

// PhaseChange is emitted on every lifecycle phase transition.
type PhaseChange struct {
	Previous Phase
	Current  Phase
}

// AdapterChange is emitted when a new adapter's content becomes
// presentable: on ready with the live handle, on failure with the
// item's fallback (nil when none is configured).
type AdapterChange struct {
	Kind   story.Kind
	Handle any
}

// ProgressChange carries the normalized progress of the current item.
type ProgressChange struct {
	Progress float64
}

// ErrorEvent is emitted when an item fails to load or an adapter cannot
// be constructed. Load failures are absorbed, never fatal: the sequence
// keeps advancing on the configured duration.
type ErrorEvent struct {
	Operation string // e.g. "load", "activate"
	Index     int
	Err       error
}
