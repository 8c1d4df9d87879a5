package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgoujon/storyline/internal/adapter"
	"github.com/mgoujon/storyline/internal/clock"
	"github.com/mgoujon/storyline/internal/config"
	"github.com/mgoujon/storyline/internal/control"
	"github.com/mgoujon/storyline/internal/gesture"
	"github.com/mgoujon/storyline/internal/mpris"
	"github.com/mgoujon/storyline/internal/orchestrator"
	"github.com/mgoujon/storyline/internal/stderr"
	"github.com/mgoujon/storyline/internal/story"
	"github.com/mgoujon/storyline/internal/ui/render"
	"github.com/mgoujon/storyline/internal/ui/storybar"
)

var contentStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240"))

type (
	indexMsg    orchestrator.IndexChange
	returnedMsg struct{}
	completeMsg struct{}
	adapterMsg  orchestrator.AdapterChange
	phaseMsg    orchestrator.PhaseChange
	progressMsg orchestrator.ProgressChange
	errMsg      orchestrator.ErrorEvent
	doneMsg     struct{}
)

type model struct {
	seq      story.Sequence
	commands *control.Channel
	orch     *orchestrator.Orchestrator
	sub      *orchestrator.Subscription
	gestures *gesture.Controller
	mpris    *mpris.Adapter

	width  int
	height int

	index    int
	phase    orchestrator.Phase
	progress float64
	handle   any
	kind     story.Kind
	lastErr  error
}

func initialModel(cfg *config.Config) (model, error) {
	seq, err := cfg.Sequence()
	if err != nil {
		return model{}, err
	}

	commands := control.NewChannel(seq.Len())

	fetch := &adapter.DefaultFetcher{Client: http.DefaultClient}
	if cfg.Player.AssetDir != "" {
		fetch.Assets = os.DirFS(cfg.Player.AssetDir)
	}
	factory := adapter.NewFactory(adapter.WithFetcher(fetch))

	opts := []orchestrator.Option{}
	if cfg.Player.StartIndex > 0 {
		opts = append(opts, orchestrator.WithInitialIndex(cfg.Player.StartIndex))
	}
	if tick := cfg.TickInterval(); tick > 0 {
		opts = append(opts, orchestrator.WithClockOptions(clock.WithTickInterval(tick)))
	}

	orch, err := orchestrator.New(seq, commands, factory, opts...)
	if err != nil {
		return model{}, err
	}

	m := model{
		seq:      seq,
		commands: commands,
		orch:     orch,
		sub:      orch.Subscribe(),
		gestures: gesture.NewController(commands, gesture.Handlers{}),
		index:    orch.CurrentIndex(),
		phase:    orch.Phase(),
	}

	if a, err := mpris.New(seq, orch, commands); err == nil {
		m.mpris = a
	}

	if err := orch.Start(); err != nil {
		return model{}, err
	}
	if cfg.Player.Muted {
		commands.Emit(control.Command{Action: control.ActionMute})
	}

	return m, nil
}

func (m model) Init() tea.Cmd {
	return waitEvent(m.sub)
}

// waitEvent bridges one subscription event into the bubbletea loop.
func waitEvent(sub *orchestrator.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.IndexChanged:
			return indexMsg(e)
		case <-sub.ReturnedToStart:
			return returnedMsg{}
		case <-sub.Completed:
			return completeMsg{}
		case e := <-sub.AdapterChanged:
			return adapterMsg(e)
		case e := <-sub.PhaseChanged:
			return phaseMsg(e)
		case e := <-sub.ProgressChanged:
			return progressMsg(e)
		case e := <-sub.Error:
			return errMsg(e)
		case <-sub.Done:
			return doneMsg{}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case indexMsg:
		m.index = msg.Index
		m.handle = nil
		m.lastErr = nil
		return m, waitEvent(m.sub)
	case returnedMsg:
		m.handle = nil
		m.lastErr = nil
		return m, waitEvent(m.sub)
	case completeMsg:
		return m, waitEvent(m.sub)
	case adapterMsg:
		m.kind = msg.Kind
		m.handle = msg.Handle
		return m, waitEvent(m.sub)
	case phaseMsg:
		m.phase = msg.Current
		if m.phase == orchestrator.PhaseLoading {
			m.progress = 0
		}
		return m, waitEvent(m.sub)
	case progressMsg:
		m.progress = msg.Progress
		return m, waitEvent(m.sub)
	case errMsg:
		m.lastErr = msg.Err
		return m, waitEvent(m.sub)
	case doneMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "left", "h":
		return m, gestureCmd(m.gestures.LeftTap)
	case "right", "l":
		return m, gestureCmd(m.gestures.RightTap)
	case " ":
		if m.commands.Status() == control.StatusPaused {
			return m, gestureCmd(m.gestures.ResumeRelease)
		}
		return m, gestureCmd(m.gestures.PauseHold)
	case "m":
		if m.orch.Muted() {
			m.commands.Emit(control.Command{Action: control.ActionUnmute})
		} else {
			m.commands.Emit(control.Command{Action: control.ActionMute})
		}
	case "g":
		m.commands.Emit(control.JumpTo(0))
	}
	return m, nil
}

func gestureCmd(g func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		g(context.Background())
		return nil
	}
}

func (m model) quit() tea.Cmd {
	if m.mpris != nil {
		_ = m.mpris.Close()
	}
	_ = m.orch.Close()
	return tea.Quit
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}

	bar := storybar.Render(m.barState(), m.width)

	contentHeight := max(m.height-storybar.Height()-2, 1)
	inner := lipgloss.Place(
		max(m.width-2, 0), contentHeight,
		lipgloss.Center, lipgloss.Center,
		m.content(),
	)

	return bar + "\n" + contentStyle.Render(inner)
}

func (m model) barState() storybar.State {
	item := m.seq.At(m.index)
	s := storybar.State{
		Index:    m.index,
		Count:    m.seq.Len(),
		Progress: m.progress,
		Paused:   m.commands.Status() == control.StatusPaused,
		Muted:    m.orch.Muted(),
		Loading:  m.phase == orchestrator.PhaseLoading,
		Failed:   m.phase == orchestrator.PhaseFailed,
		Kind:     item.Kind.String(),
	}
	if t, ok := item.Meta["title"].(string); ok {
		s.Title = t
	}
	return s
}

// content renders a terminal stand-in for the live media handle.
func (m model) content() string {
	switch m.phase {
	case orchestrator.PhaseIdle, orchestrator.PhaseLoading:
		return "…"
	case orchestrator.PhaseCompleted:
		return "The End"
	case orchestrator.PhaseFailed:
		if fb, ok := m.handle.(string); ok && fb != "" {
			return fb
		}
		if m.lastErr != nil {
			return "unavailable: " + m.lastErr.Error()
		}
		return "unavailable"
	}

	switch h := m.handle.(type) {
	case string:
		return render.Sanitize(h)
	case image.Image:
		b := h.Bounds()
		return fmt.Sprintf("[%s %dx%d]", m.kind, b.Dx(), b.Dy())
	case *adapter.AudioHandle:
		var parts []string
		if h.Title != "" {
			parts = append(parts, h.Title)
		}
		if h.Artist != "" {
			parts = append(parts, h.Artist)
		}
		if len(parts) == 0 {
			return "♪"
		}
		return "♪ " + strings.Join(parts, " · ")
	case []byte:
		return fmt.Sprintf("[%s, %d bytes]", m.kind, len(h))
	case nil:
		return ""
	default:
		return fmt.Sprintf("[%s]", m.kind)
	}
}

func main() {
	configPath := flag.String("config", "", "path to a storyline config file")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Audio backends write ALSA noise straight to fd 2; capture it so
	// it cannot tear the TUI.
	_ = stderr.Start()
	defer stderr.Stop()

	m, err := initialModel(cfg)
	if err != nil {
		stderr.Stop()
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		stderr.Stop()
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
