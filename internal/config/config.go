// Package config loads densitymap settings from defaults, the user's TOML
// config file, .env files and DENSITYMAP_* environment variables, in that
// order of precedence (later wins). Command-line flags override all of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// RelPath is the config file location relative to the XDG config home.
const RelPath = "densitymap/config.toml"

// Config holds every persistent setting
type Config struct {
	Map     MapConfig     `toml:"map"`
	Browser BrowserConfig `toml:"browser"`
}

// MapConfig holds rendering settings
type MapConfig struct {
	Mode           string `toml:"mode"`            // dense or sparse (default: dense)
	Cols           int    `toml:"cols"`            // grid width in dense mode (default: 160)
	SparseCols     int    `toml:"sparse_cols"`     // grid width in sparse mode (default: 80)
	Glyphs         string `toml:"glyphs"`          // ascii or blocks (default: ascii)
	MaxInteractive int    `toml:"max_interactive"` // interactive listing cap, 0 = no cap (default: 50)
}

// BrowserConfig holds settings for reaching Chrome
type BrowserConfig struct {
	Port           int    `toml:"port"`            // remote debugging port (default: 9222)
	Launch         bool   `toml:"launch"`          // launch headless Chrome if none is running
	ChromePath     string `toml:"chrome_path"`     // browser binary for launch (default: auto-detect)
	Width          int    `toml:"width"`           // viewport width of a launched browser
	Height         int    `toml:"height"`          // viewport height of a launched browser
	SettleMs       int    `toml:"settle_ms"`       // wait after navigation (default: 3000)
	TimeoutSeconds int    `toml:"timeout_seconds"` // per-operation timeout (default: 30)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Map: MapConfig{
			Mode:           "dense",
			Cols:           160,
			SparseCols:     80,
			Glyphs:         "ascii",
			MaxInteractive: 50,
		},
		Browser: BrowserConfig{
			Port:           9222,
			Width:          1280,
			Height:         720,
			SettleMs:       3000,
			TimeoutSeconds: 30,
		},
	}
}

// ColsFor returns the default grid width for a rendering mode
func (c *Config) ColsFor(mode string) int {
	if mode == "sparse" {
		return c.Map.SparseCols
	}
	return c.Map.Cols
}

// Settle returns the post-navigation wait
func (c *Config) Settle() time.Duration {
	return time.Duration(c.Browser.SettleMs) * time.Millisecond
}

// Timeout returns the per-operation browser timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Browser.TimeoutSeconds) * time.Second
}

// Load builds the configuration from the XDG config file (if present), any
// .env file in the working directory and the process environment. The result
// is not validated; callers apply their own overrides first and then call
// Validate.
func Load() (*Config, error) {
	path, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		path = ""
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a TOML config on top of the defaults. An empty or missing
// path yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// #nosec G304 - path comes from the XDG search or the user
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// envVars maps environment variables to the setting they override
var envVars = map[string]func(c *Config, v string) error{
	"DENSITYMAP_MODE":            func(c *Config, v string) error { c.Map.Mode = v; return nil },
	"DENSITYMAP_COLS":            intVar(func(c *Config) *int { return &c.Map.Cols }),
	"DENSITYMAP_SPARSE_COLS":     intVar(func(c *Config) *int { return &c.Map.SparseCols }),
	"DENSITYMAP_GLYPHS":          func(c *Config, v string) error { c.Map.Glyphs = v; return nil },
	"DENSITYMAP_MAX_INTERACTIVE": intVar(func(c *Config) *int { return &c.Map.MaxInteractive }),
	"DENSITYMAP_PORT":            intVar(func(c *Config) *int { return &c.Browser.Port }),
	"DENSITYMAP_CHROME_PATH":     func(c *Config, v string) error { c.Browser.ChromePath = v; return nil },
	"DENSITYMAP_SETTLE_MS":       intVar(func(c *Config) *int { return &c.Browser.SettleMs }),
	"DENSITYMAP_LAUNCH": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Browser.Launch = b
		return err
	},
}

func intVar(field func(c *Config) *int) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

// ApplyEnv overrides settings from DENSITYMAP_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envVars {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		if err := set(c, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", name, v, err)
		}
	}
	return nil
}

// Validate rejects settings the renderer or browser cannot use
func (c *Config) Validate() error {
	var errs []error
	switch c.Map.Mode {
	case "dense", "sparse":
	default:
		errs = append(errs, fmt.Errorf("map.mode: unknown mode %q (dense, sparse)", c.Map.Mode))
	}
	switch c.Map.Glyphs {
	case "ascii", "blocks":
	default:
		errs = append(errs, fmt.Errorf("map.glyphs: unknown glyph set %q (ascii, blocks)", c.Map.Glyphs))
	}
	if c.Map.Cols <= 0 {
		errs = append(errs, fmt.Errorf("map.cols: must be positive, got %d", c.Map.Cols))
	}
	if c.Map.SparseCols <= 0 {
		errs = append(errs, fmt.Errorf("map.sparse_cols: must be positive, got %d", c.Map.SparseCols))
	}
	if c.Map.MaxInteractive < 0 {
		errs = append(errs, fmt.Errorf("map.max_interactive: must not be negative, got %d", c.Map.MaxInteractive))
	}
	if c.Browser.Port <= 0 || c.Browser.Port > 65535 {
		errs = append(errs, fmt.Errorf("browser.port: out of range: %d", c.Browser.Port))
	}
	return errors.Join(errs...)
}

// WriteDefault writes the default configuration to the XDG config path and
// returns where it was written. An existing file is left untouched.
func WriteDefault() (string, error) {
	path, err := xdg.ConfigFile(RelPath)
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists: %s", path)
	}
	return path, writeConfig(path, Default())
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# densitymap configuration\n")
	sb.WriteString("# Location: " + path + "\n")
	sb.WriteString("# Environment variables (DENSITYMAP_COLS, DENSITYMAP_PORT, ...) and flags override these values.\n\n")
	sb.Write(data)

	return os.WriteFile(path, []byte(sb.String()), 0600)
}
