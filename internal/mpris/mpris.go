//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/mgoujon/storyline/internal/control"
	"github.com/mgoujon/storyline/internal/orchestrator"
	"github.com/mgoujon/storyline/internal/story"
)

// Adapter exposes a storyline session over MPRIS on D-Bus, so desktop
// media controls can drive the command channel.
type Adapter struct {
	server *server.Server
	done   chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(seq story.Sequence, orch *orchestrator.Orchestrator, commands *control.Channel) (*Adapter, error) {
	a := &Adapter{
		done: make(chan struct{}),
	}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{seq: seq, orch: orch, commands: commands}

	a.server = server.NewServer("storyline", rootAdapter, playerAdapter)

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "Storyline", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"image/png", "image/jpeg", "video/mp4", "audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	seq      story.Sequence
	orch     *orchestrator.Orchestrator
	commands *control.Channel
}

func (p *playerAdapter) Next() error {
	p.commands.Emit(control.Command{Action: control.ActionNext})
	return nil
}

func (p *playerAdapter) Previous() error {
	p.commands.Emit(control.Command{Action: control.ActionPrevious})
	return nil
}

func (p *playerAdapter) Pause() error {
	p.commands.Emit(control.Command{Action: control.ActionPause})
	return nil
}

func (p *playerAdapter) PlayPause() error {
	if p.commands.Status() == control.StatusPaused {
		p.commands.Emit(control.Command{Action: control.ActionPlay})
	} else {
		p.commands.Emit(control.Command{Action: control.ActionPause})
	}
	return nil
}

func (p *playerAdapter) Stop() error {
	p.commands.Emit(control.Command{Action: control.ActionPause})
	return nil
}

func (p *playerAdapter) Play() error {
	p.commands.Emit(control.Command{Action: control.ActionPlay})
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Items have fixed display windows
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Not supported
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.orch.Phase() {
	case orchestrator.PhaseIdle, orchestrator.PhaseCompleted:
		return types.PlaybackStatusStopped, nil
	}
	if p.commands.Status() == control.StatusPaused {
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusPlaying, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	idx := p.orch.CurrentIndex()
	if !p.seq.InRange(idx) {
		return types.Metadata{}, nil
	}
	item := p.seq.At(idx)

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatItemID(idx, item.Locator)),
		Length:  types.Microseconds(item.Duration.Microseconds()),
		Title:   itemTitle(item, idx),
	}

	if artPath := FindArtwork(item); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if p.orch.Muted() {
		return 0.0, nil
	}
	return 1.0, nil
}

// SetVolume maps the binary mute model onto the MPRIS volume axis:
// zero mutes, anything else unmutes.
func (p *playerAdapter) SetVolume(v float64) error {
	if v == 0 {
		p.commands.Emit(control.Command{Action: control.ActionMute})
	} else {
		p.commands.Emit(control.Command{Action: control.ActionUnmute})
	}
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	idx := p.orch.CurrentIndex()
	if !p.seq.InRange(idx) {
		return 0, nil
	}
	d := p.seq.At(idx).Duration
	elapsed := time.Duration(p.orch.Progress() * float64(d))
	return elapsed.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.orch.CurrentIndex() < p.seq.Len()-1, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	// Previous at the first item restarts it, so always available.
	return true, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.seq.Len() > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func itemTitle(item story.Item, idx int) string {
	if t, ok := item.Meta["title"].(string); ok && t != "" {
		return t
	}
	return fmt.Sprintf("Item %d (%s)", idx+1, item.Kind)
}

func formatItemID(idx int, locator string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s", idx, locator)
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Item/%x", h.Sum64())
}
