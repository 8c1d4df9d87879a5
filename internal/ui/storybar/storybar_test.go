package storybar

import (
	"strings"
	"testing"
)

func countBlocks(s string) (filled, empty int) {
	return strings.Count(s, filledBlock), strings.Count(s, emptyBlock)
}

func TestSegments_FilledReflectsPosition(t *testing.T) {
	// 5 items, 4 gaps, width 29 -> 5 cells per segment
	s := State{Index: 2, Count: 5, Progress: 0.6}
	out := Segments(s, 29)

	filled, empty := countBlocks(out)
	// Items 0 and 1 full (10), current 60% of 5 cells (3)
	if filled != 13 {
		t.Errorf("filled cells = %d, want 13 in %q", filled, out)
	}
	if empty != 12 {
		t.Errorf("empty cells = %d, want 12 in %q", empty, out)
	}
}

func TestSegments_FirstItemNoProgress(t *testing.T) {
	s := State{Index: 0, Count: 3, Progress: 0}
	out := Segments(s, 17)

	filled, empty := countBlocks(out)
	if filled != 0 {
		t.Errorf("filled cells = %d, want 0 in %q", filled, out)
	}
	if empty != 15 {
		t.Errorf("empty cells = %d, want 15 in %q", empty, out)
	}
}

func TestSegments_LastItemComplete(t *testing.T) {
	s := State{Index: 2, Count: 3, Progress: 1}
	out := Segments(s, 17)

	filled, empty := countBlocks(out)
	if filled != 15 {
		t.Errorf("filled cells = %d, want 15 in %q", filled, out)
	}
	if empty != 0 {
		t.Errorf("empty cells = %d, want 0 in %q", empty, out)
	}
}

func TestSegments_TooNarrowDegradesToCounter(t *testing.T) {
	s := State{Index: 4, Count: 40, Progress: 0.5}
	out := Segments(s, 10)

	if out != "5/40" {
		t.Errorf("Segments() = %q, want plain counter", out)
	}
}

func TestRender_StatusLine(t *testing.T) {
	tests := []struct {
		name string
		s    State
		want string
	}{
		{
			name: "playing shows play symbol",
			s:    State{Index: 0, Count: 2},
			want: playSymbol,
		},
		{
			name: "paused shows pause symbol",
			s:    State{Index: 0, Count: 2, Paused: true},
			want: pauseSymbol,
		},
		{
			name: "muted shows mute symbol",
			s:    State{Index: 0, Count: 2, Muted: true},
			want: muteSymbol,
		},
		{
			name: "loading note",
			s:    State{Index: 0, Count: 2, Loading: true},
			want: "loading",
		},
		{
			name: "failed note",
			s:    State{Index: 0, Count: 2, Failed: true},
			want: "unavailable",
		},
		{
			name: "title shown",
			s:    State{Index: 0, Count: 2, Title: "Sunset"},
			want: "Sunset",
		},
		{
			name: "position counter",
			s:    State{Index: 1, Count: 3},
			want: "2/3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.s, 60)
			if !strings.Contains(out, tt.want) {
				t.Errorf("Render() = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestRender_EmptyWhenNoItems(t *testing.T) {
	if out := Render(State{}, 60); out != "" {
		t.Errorf("Render() = %q, want empty for zero items", out)
	}
}

func TestHeight(t *testing.T) {
	if Height() != 2 {
		t.Errorf("Height() = %d, want 2", Height())
	}
}
