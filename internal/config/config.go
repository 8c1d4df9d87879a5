package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mgoujon/storyline/internal/story"
)

const (
	appName        = "storyline"
	configFileName = "config.toml"

	// Applied to items that need a display duration but configure none.
	defaultItemDuration = 5 * time.Second
)

type Config struct {
	Player PlayerConfig `koanf:"player"`
	Items  []ItemConfig `koanf:"item"`
}

// PlayerConfig holds session-level options.
type PlayerConfig struct {
	StartIndex      int    `koanf:"start_index"`      // first item to show (default: 0)
	Muted           bool   `koanf:"muted"`            // start the session muted
	DefaultDuration string `koanf:"default_duration"` // e.g. "5s", applied when an item sets none
	TickInterval    string `koanf:"tick_interval"`    // progress tick granularity (default: 50ms)
	AssetDir        string `koanf:"asset_dir"`        // root for origin = "asset" items
}

// ItemConfig is one story item as written in TOML. Durations are
// strings so users can write "3s" or "1m30s".
type ItemConfig struct {
	Kind     string `koanf:"kind"`     // image, video, audio, text, web
	Source   string `koanf:"source"`   // URL, path, or inline text for kind = "text"
	Origin   string `koanf:"origin"`   // network, file, asset (default: inferred from source)
	Duration string `koanf:"duration"` // display duration; empty means the default
	Muted    bool   `koanf:"muted"`    // start this item muted
	Title    string `koanf:"title"`    // optional, surfaced in media metadata
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Player.AssetDir != "" {
		cfg.Player.AssetDir = expandPath(cfg.Player.AssetDir)
	}

	return cfg, nil
}

// LoadFile reads a single explicit config file, skipping the search
// path. Used for the -config flag.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if cfg.Player.AssetDir != "" {
		cfg.Player.AssetDir = expandPath(cfg.Player.AssetDir)
	}
	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. XDG config dir, e.g. ~/.config/storyline/config.toml
	if path, err := xdg.SearchConfigFile(filepath.Join(appName, configFileName)); err == nil {
		paths = append(paths, path)
	}

	// 2. ./storyline.toml (pwd, highest priority)
	paths = append(paths, "storyline.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DefaultDuration returns the configured per-item default, falling
// back to 5s when unset or unparsable.
func (c *Config) DefaultDuration() time.Duration {
	if c.Player.DefaultDuration == "" {
		return defaultItemDuration
	}
	d, err := time.ParseDuration(c.Player.DefaultDuration)
	if err != nil || d <= 0 {
		return defaultItemDuration
	}
	return d
}

// TickInterval returns the configured progress granularity, or zero
// to signal the clock's own default.
func (c *Config) TickInterval() time.Duration {
	if c.Player.TickInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Player.TickInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Sequence converts the configured items into a validated story
// sequence, applying the default duration where items set none.
func (c *Config) Sequence() (story.Sequence, error) {
	if len(c.Items) == 0 {
		return story.Sequence{}, story.ErrEmptySequence
	}
	items := make([]story.Item, 0, len(c.Items))
	for i, ic := range c.Items {
		item, err := c.item(ic)
		if err != nil {
			return story.Sequence{}, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return story.NewSequence(items...)
}

func (c *Config) item(ic ItemConfig) (story.Item, error) {
	kind, err := parseKind(ic.Kind)
	if err != nil {
		return story.Item{}, err
	}

	origin, err := parseOrigin(ic.Origin, ic.Source)
	if err != nil {
		return story.Item{}, err
	}

	d := c.DefaultDuration()
	if ic.Duration != "" {
		d, err = time.ParseDuration(ic.Duration)
		if err != nil {
			return story.Item{}, fmt.Errorf("duration %q: %w", ic.Duration, err)
		}
	}

	item := story.Item{
		Kind:          kind,
		Locator:       ic.Source,
		Origin:        origin,
		Duration:      d,
		MuteByDefault: ic.Muted,
	}
	if ic.Title != "" {
		item.Meta = map[string]any{"title": ic.Title}
	}
	return item, nil
}

func parseKind(s string) (story.Kind, error) {
	switch s {
	case "image":
		return story.KindImage, nil
	case "video":
		return story.KindVideo, nil
	case "audio":
		return story.KindAudio, nil
	case "text":
		return story.KindText, nil
	case "web":
		return story.KindWeb, nil
	default:
		return 0, fmt.Errorf("unknown item kind %q", s)
	}
}

func parseOrigin(s, source string) (story.Origin, error) {
	switch s {
	case "network":
		return story.OriginNetwork, nil
	case "file":
		return story.OriginFile, nil
	case "asset":
		return story.OriginAsset, nil
	case "":
		return inferOrigin(source), nil
	default:
		return 0, fmt.Errorf("unknown origin %q", s)
	}
}

// inferOrigin defaults URLs to network and everything else to file.
func inferOrigin(source string) story.Origin {
	if len(source) >= 8 && (source[:7] == "http://" || source[:8] == "https://") {
		return story.OriginNetwork
	}
	return story.OriginFile
}
