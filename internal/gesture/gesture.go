// Package gesture maps presentation-layer gestures onto playback
// commands, with a cooperative override hook: an external handler gets
// first refusal on every gesture and can suppress the default action
// by reporting that it handled it.
package gesture

import (
	"context"

	"github.com/mgoujon/storyline/internal/control"
)

// Handler resolves whether the external collaborator consumed the
// gesture. Returning true suppresses the default playback action.
type Handler func(ctx context.Context) bool

// Handlers holds the optional per-gesture overrides. A nil field means
// the default action always runs.
type Handlers struct {
	LeftTap       Handler
	RightTap      Handler
	PauseHold     Handler
	ResumeRelease Handler
}

// Controller translates gestures into commands on a control channel.
// Each gesture method returns as soon as the decision is resolved and
// the default command, when applicable, has been emitted.
type Controller struct {
	commands *control.Channel
	handlers Handlers
}

// NewController binds gesture handling to commands.
func NewController(commands *control.Channel, handlers Handlers) *Controller {
	return &Controller{commands: commands, handlers: handlers}
}

// LeftTap requests the previous item unless the override claims it.
func (c *Controller) LeftTap(ctx context.Context) {
	c.resolve(ctx, c.handlers.LeftTap, control.Command{Action: control.ActionPrevious})
}

// RightTap requests the next item unless the override claims it.
func (c *Controller) RightTap(ctx context.Context) {
	c.resolve(ctx, c.handlers.RightTap, control.Command{Action: control.ActionNext})
}

// PauseHold pauses playback unless the override claims it.
func (c *Controller) PauseHold(ctx context.Context) {
	c.resolve(ctx, c.handlers.PauseHold, control.Command{Action: control.ActionPause})
}

// ResumeRelease resumes playback unless the override claims it.
func (c *Controller) ResumeRelease(ctx context.Context) {
	c.resolve(ctx, c.handlers.ResumeRelease, control.Command{Action: control.ActionPlay})
}

// resolve asks the handler first and emits the default only on a
// false resolution. The handler runs to completion before the default
// action, never after it.
func (c *Controller) resolve(ctx context.Context, h Handler, def control.Command) {
	if h != nil && h(ctx) {
		return
	}
	c.commands.Emit(def)
}
