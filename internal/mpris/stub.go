//go:build !linux

package mpris

import (
	"github.com/mgoujon/storyline/internal/control"
	"github.com/mgoujon/storyline/internal/orchestrator"
	"github.com/mgoujon/storyline/internal/story"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ story.Sequence, _ *orchestrator.Orchestrator, _ *control.Channel) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
