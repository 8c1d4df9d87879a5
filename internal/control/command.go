// Package control carries the discrete playback commands external code
// and gesture handlers use to influence a story session. The channel is
// the single command surface; the orchestrator is just one subscriber.
package control

// Action identifies a playback command.
type Action int

const (
	ActionPlay Action = iota
	ActionPause
	ActionNext
	ActionPrevious
	ActionMute
	ActionUnmute
	ActionJumpTo
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionMute:
		return "mute"
	case ActionUnmute:
		return "unmute"
	case ActionJumpTo:
		return "jumpTo"
	default:
		return "unknown"
	}
}

// Command is one discrete playback instruction. Index is meaningful
// only for ActionJumpTo.
type Command struct {
	Action Action
	Index  int
}

// JumpTo builds a jump command targeting index i.
func JumpTo(i int) Command {
	return Command{Action: ActionJumpTo, Index: i}
}

// Status is the channel's readable play/pause state.
type Status int

const (
	StatusPlaying Status = iota
	StatusPaused
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}
