package render

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{
			name:     "no truncation needed",
			input:    "hello",
			maxWidth: 10,
			want:     "hello",
		},
		{
			name:     "exact fit",
			input:    "hello",
			maxWidth: 5,
			want:     "hello",
		},
		{
			name:     "truncation with ellipsis",
			input:    "hello world",
			maxWidth: 8,
			want:     "hello...",
		},
		{
			name:     "empty string",
			input:    "",
			maxWidth: 10,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncate_WideCharacters(t *testing.T) {
	// Each CJK character is two cells wide
	got := Truncate("物語の時間", 7)
	if got != "物語..." {
		t.Errorf("Truncate() = %q, want %q", got, "物語...")
	}
}

func TestTruncateEllipsis(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{
			name:     "fits unchanged",
			input:    "short",
			maxWidth: 10,
			want:     "short",
		},
		{
			name:     "truncated with single ellipsis",
			input:    "a longer title",
			maxWidth: 8,
			want:     "a longe…",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateEllipsis(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("TruncateEllipsis(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean string unchanged",
			input: "plain story text",
			want:  "plain story text",
		},
		{
			name:  "control characters removed",
			input: "bell\x07 and escape\x1b[31m",
			want:  "bell and escape[31m",
		},
		{
			name:  "tab and newline preserved",
			input: "line one\n\tindented",
			want:  "line one\n\tindented",
		},
		{
			name:  "non-breaking space becomes space",
			input: "a\u00a0b",
			want:  "a b",
		},
		{
			name:  "invalid utf8 dropped",
			input: "ok\xffstill ok",
			want:  "okstill ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	got := Pad("ab", 5)
	if got != "ab   " {
		t.Errorf("Pad() = %q, want %q", got, "ab   ")
	}
}

func TestRow(t *testing.T) {
	got := Row("left", "right", 20)
	if len(got) != 20 {
		t.Errorf("Row() length = %d, want 20 (%q)", len(got), got)
	}
	if !strings.HasPrefix(got, "left") || !strings.HasSuffix(got, "right") {
		t.Errorf("Row() = %q, want left-aligned and right-aligned parts", got)
	}
}

func TestSeparator(t *testing.T) {
	got := Separator(4)
	if got != "────" {
		t.Errorf("Separator() = %q", got)
	}
}
