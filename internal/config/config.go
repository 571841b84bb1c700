package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/runlog/internal/engine"
	"github.com/five82/runlog/internal/sgr"
)

// Color modes for JSON output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds runlog settings.
type Config struct {
	StyleScope   sgr.Scope
	Timestamps   bool
	Pretty       bool
	Color        string
	TailLines    int
	PollInterval time.Duration
	Theme        string
}

const (
	defaultConfigPath   = "~/.config/runlog/config.toml"
	defaultPollInterval = 2 * time.Second
	defaultColor        = ColorAuto
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		StyleScope:   sgr.ScopeLine,
		Timestamps:   true,
		Color:        defaultColor,
		PollInterval: defaultPollInterval,
	}
}

// Load parses the config at path, or the default location when path is
// empty. A missing file yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		StyleScope          string `toml:"style_scope"`
		Timestamps          *bool  `toml:"timestamps"`
		Pretty              bool   `toml:"pretty"`
		Color               string `toml:"color"`
		TailLines           int    `toml:"tail_lines"`
		PollIntervalSeconds int    `toml:"poll_interval_seconds"`
		Theme               string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.StyleScope, err = sgr.ParseScope(raw.StyleScope)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.Timestamps != nil {
		cfg.Timestamps = *raw.Timestamps
	}
	cfg.Pretty = raw.Pretty

	cfg.Color, err = ParseColor(raw.Color)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.TailLines > 0 {
		cfg.TailLines = raw.TailLines
	}
	if raw.PollIntervalSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalSeconds) * time.Second
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	return cfg, nil
}

// ParseColor normalizes a color mode. Empty means auto.
func ParseColor(s string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(s)); mode {
	case "":
		return defaultColor, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown color mode %q", s)
	}
}

// EngineOptions returns the engine settings carried by the config.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithStyleScope(c.StyleScope),
		engine.WithTimestamps(c.Timestamps),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading "~" and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
