// Package storybar renders the segmented progress header for a story
// session: one segment per item, the current one filling as its clock
// runs, plus a one-line status footer.
package storybar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgoujon/storyline/internal/ui/render"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"

	playSymbol  = "▶"
	pauseSymbol = "⏸"
	muteSymbol  = "🔇"

	segmentGap  = " "
	minSegWidth = 1
)

// State holds everything needed to render the bar.
type State struct {
	Index    int     // current item, in [0, Count)
	Count    int     // total items
	Progress float64 // current item progress in [0, 1]
	Paused   bool
	Muted    bool
	Loading  bool   // current item not yet ready
	Failed   bool   // current item showing its fallback
	Title    string // optional item title
	Kind     string // item kind label, e.g. "image"
}

// Height returns the total height of the story bar.
func Height() int {
	return 2 // segments row + status row
}

// Render returns the story bar for the given width.
func Render(s State, width int) string {
	if s.Count <= 0 || width <= 0 {
		return ""
	}
	return Segments(s, width) + "\n" + statusLine(s, width)
}

// Segments renders the per-item segment row. Items before the current
// index are full, the current one is filled proportionally to its
// progress, and the rest are empty.
func Segments(s State, width int) string {
	gaps := (s.Count - 1) * lipgloss.Width(segmentGap)
	segWidth := (width - gaps) / s.Count
	if segWidth < minSegWidth {
		// Too narrow for one cell per item: degrade to a plain counter.
		return fmt.Sprintf("%d/%d", s.Index+1, s.Count)
	}

	var b strings.Builder
	for i := range s.Count {
		if i > 0 {
			b.WriteString(segmentGap)
		}
		b.WriteString(segment(s, i, segWidth))
	}
	return b.String()
}

func segment(s State, i, segWidth int) string {
	var filled int
	switch {
	case i < s.Index:
		filled = segWidth
	case i == s.Index:
		filled = min(int(float64(segWidth)*s.Progress), segWidth)
	default:
		filled = 0
	}

	seg := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, segWidth-filled)
	if i == s.Index {
		return currentSegmentStyle.Render(seg)
	}
	return segmentStyle.Render(seg)
}

func statusLine(s State, width int) string {
	status := playSymbol
	if s.Paused {
		status = pauseSymbol
	}

	right := fmt.Sprintf("%d/%d", s.Index+1, s.Count)
	if s.Muted {
		right = muteSymbol + "  " + right
	}

	parts := []string{status}
	if label := s.Title; label != "" || s.Kind != "" {
		if label == "" {
			label = s.Kind
		}
		maxLabel := width - lipgloss.Width(status) - lipgloss.Width(right) - 4
		if maxLabel > 0 {
			parts = append(parts, titleStyle.Render(render.Truncate(label, maxLabel)))
		}
	}
	switch {
	case s.Loading:
		parts = append(parts, metaStyle.Render("loading…"))
	case s.Failed:
		parts = append(parts, errorStyle.Render("unavailable"))
	}

	left := strings.Join(parts, "  ")
	if lipgloss.Width(left)+lipgloss.Width(right) >= width {
		return left
	}
	return render.Row(left, right, width)
}
