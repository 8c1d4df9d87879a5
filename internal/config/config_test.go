package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgoujon/storyline/internal/story"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/stories",
			expected: filepath.Join(home, "stories"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/stories",
			expected: "/srv/stories",
		},
		{
			name:     "relative path unchanged",
			input:    "stories/assets",
			expected: "stories/assets",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be the local file, which wins
	lastPath := paths[len(paths)-1]
	if lastPath != "storyline.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "storyline.toml")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	chdirTemp(t)

	configContent := `
[player]
muted = true
default_duration = "4s"
asset_dir = "/srv/assets"

[[item]]
kind = "image"
source = "https://example.com/cover.png"
duration = "3s"

[[item]]
kind = "text"
source = "hello there"
duration = "2s"
`
	if err := os.WriteFile("storyline.toml", []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Player.Muted {
		t.Error("Player.Muted = false, want true")
	}
	if got := cfg.DefaultDuration(); got != 4*time.Second {
		t.Errorf("DefaultDuration() = %v, want 4s", got)
	}
	if cfg.Player.AssetDir != "/srv/assets" {
		t.Errorf("Player.AssetDir = %q, want %q", cfg.Player.AssetDir, "/srv/assets")
	}
	if len(cfg.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(cfg.Items))
	}
	if cfg.Items[0].Kind != "image" {
		t.Errorf("Items[0].Kind = %q, want %q", cfg.Items[0].Kind, "image")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("storyline.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}

func TestSequence_Conversion(t *testing.T) {
	cfg := &Config{
		Player: PlayerConfig{DefaultDuration: "4s"},
		Items: []ItemConfig{
			{Kind: "image", Source: "https://example.com/a.png", Duration: "3s"},
			{Kind: "video", Source: "/media/clip.mp4", Muted: true},
			{Kind: "text", Source: "the end"},
		},
	}

	seq, err := cfg.Sequence()
	if err != nil {
		t.Fatalf("Sequence() error = %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", seq.Len())
	}

	first := seq.At(0)
	if first.Kind != story.KindImage {
		t.Errorf("items[0].Kind = %v, want image", first.Kind)
	}
	if first.Origin != story.OriginNetwork {
		t.Errorf("items[0].Origin = %v, want network (inferred from URL)", first.Origin)
	}
	if first.Duration != 3*time.Second {
		t.Errorf("items[0].Duration = %v, want 3s", first.Duration)
	}

	second := seq.At(1)
	if second.Origin != story.OriginFile {
		t.Errorf("items[1].Origin = %v, want file (inferred from path)", second.Origin)
	}
	if !second.MuteByDefault {
		t.Error("items[1].MuteByDefault = false, want true")
	}

	// No explicit duration on the text item: the default applies.
	if got := seq.At(2).Duration; got != 4*time.Second {
		t.Errorf("items[2].Duration = %v, want the 4s default", got)
	}
}

func TestSequence_Errors(t *testing.T) {
	tests := []struct {
		name  string
		items []ItemConfig
	}{
		{
			name:  "no items",
			items: nil,
		},
		{
			name:  "unknown kind",
			items: []ItemConfig{{Kind: "hologram", Source: "/x"}},
		},
		{
			name:  "unknown origin",
			items: []ItemConfig{{Kind: "image", Source: "/x", Origin: "carrier-pigeon"}},
		},
		{
			name:  "bad duration",
			items: []ItemConfig{{Kind: "image", Source: "/x", Duration: "soon"}},
		},
		{
			name:  "missing source",
			items: []ItemConfig{{Kind: "image"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Items: tt.items}
			if _, err := cfg.Sequence(); err == nil {
				t.Error("Sequence() expected error, got nil")
			}
		})
	}
}

func TestDefaultDuration_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "unset", value: "", expected: 5 * time.Second},
		{name: "valid", value: "10s", expected: 10 * time.Second},
		{name: "unparsable", value: "whenever", expected: 5 * time.Second},
		{name: "non-positive", value: "-3s", expected: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Player: PlayerConfig{DefaultDuration: tt.value}}
			if got := cfg.DefaultDuration(); got != tt.expected {
				t.Errorf("DefaultDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInferOrigin(t *testing.T) {
	tests := []struct {
		source   string
		expected story.Origin
	}{
		{"https://example.com/a.png", story.OriginNetwork},
		{"http://example.com/a.png", story.OriginNetwork},
		{"/media/a.png", story.OriginFile},
		{"relative/a.png", story.OriginFile},
		{"", story.OriginFile},
	}

	for _, tt := range tests {
		if got := inferOrigin(tt.source); got != tt.expected {
			t.Errorf("inferOrigin(%q) = %v, want %v", tt.source, got, tt.expected)
		}
	}
}
