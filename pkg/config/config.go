// Package config loads the control defaults and terminal theme from
// .flattree/config.yaml (or config.toml), discovered by walking up from the
// working directory. FLATTREE_DIR overrides the discovered directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/flattree/pkg/model"
)

// DirName is the per-project directory holding config and local state.
const DirName = ".flattree"

// EnvDir overrides discovery of the config directory.
const EnvDir = "FLATTREE_DIR"

// Config is the on-disk configuration
type Config struct {
	// Outline is opened when no path is given on the command line.
	Outline   string         `yaml:"outline,omitempty" toml:"outline,omitempty" json:"outline,omitempty"`
	Settings  model.Settings `yaml:"settings,omitempty" toml:"settings,omitempty" json:"settings,omitempty"`
	Theme     Theme          `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty"`
	Watch     Watch          `yaml:"watch,omitempty" toml:"watch,omitempty" json:"watch,omitempty"`
	Snapshots Snapshots      `yaml:"snapshots,omitempty" toml:"snapshots,omitempty" json:"snapshots,omitempty"`
	Preview   Preview        `yaml:"preview,omitempty" toml:"preview,omitempty" json:"preview,omitempty"`
	Discovery Discovery      `yaml:"discovery,omitempty" toml:"discovery,omitempty" json:"discovery,omitempty"`

	// Dir is the directory the config was loaded from ("" for defaults).
	Dir string `yaml:"-" toml:"-" json:"-"`
}

// Theme holds terminal colors as lipgloss color strings ("#rrggbb" or ANSI
// numbers).
type Theme struct {
	Selected string `yaml:"selected,omitempty" toml:"selected,omitempty" json:"selected,omitempty"`
	Focus    string `yaml:"focus,omitempty" toml:"focus,omitempty" json:"focus,omitempty"`
	Guide    string `yaml:"guide,omitempty" toml:"guide,omitempty" json:"guide,omitempty"`
	Match    string `yaml:"match,omitempty" toml:"match,omitempty" json:"match,omitempty"`
	Status   string `yaml:"status,omitempty" toml:"status,omitempty" json:"status,omitempty"`
}

// Watch configures reloading when the outline file changes on disk
type Watch struct {
	Enabled    bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	DebounceMs int  `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty" json:"debounce_ms,omitempty"`
}

// Snapshots configures the snapshot database
type Snapshots struct {
	Path string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
}

// Preview configures the HTTP preview server
type Preview struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty" json:"addr,omitempty"`
}

// Discovery configures where outline files are searched for
type Discovery struct {
	ScanPaths []string `yaml:"scan_paths,omitempty" toml:"scan_paths,omitempty" json:"scan_paths,omitempty"`
	MaxDepth  int      `yaml:"max_depth,omitempty" toml:"max_depth,omitempty" json:"max_depth,omitempty"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Theme: Theme{
			Selected: "#08246b",
			Focus:    "#f0c674",
			Guide:    "#5c6370",
			Match:    "#e5c07b",
			Status:   "#a0a0a0",
		},
		Watch:     Watch{Enabled: true, DebounceMs: 200},
		Snapshots: Snapshots{Path: "~/" + DirName + "/snapshots.db"},
		Preview:   Preview{Addr: "127.0.0.1:9271"},
		Discovery: Discovery{MaxDepth: 3},
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms (%d) cannot be negative", c.Watch.DebounceMs)
	}
	if c.Discovery.MaxDepth < 0 {
		return fmt.Errorf("discovery.max_depth (%d) cannot be negative", c.Discovery.MaxDepth)
	}
	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// Load reads a config file and overlays it on the defaults. The format is
// chosen by extension (.yaml, .yml or .toml).
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("expanding %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// configNames lists the files looked for inside the config directory, in
// order of preference.
var configNames = []string{"config.yaml", "config.yml", "config.toml"}

// LoadDefault loads the config from FLATTREE_DIR, or from the .flattree
// directory of the current project. A missing config yields the defaults.
func LoadDefault() (Config, error) {
	dir, ok := ConfigDir()
	if !ok {
		return Default(), nil
	}
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	cfg := Default()
	cfg.Dir = dir
	return cfg, nil
}

// ConfigDir reports the config directory: FLATTREE_DIR when set, otherwise
// the .flattree directory found by walking up from the working directory.
func ConfigDir() (string, bool) {
	if env := os.Getenv(EnvDir); env != "" {
		return expandHome(env), true
	}
	root, ok := DetectCurrentProject()
	if !ok {
		return "", false
	}
	return filepath.Join(root, DirName), true
}

// StatePath returns where the TUI persists expand state for a project
// directory.
func StatePath(projectDir string) string {
	return filepath.Join(projectDir, DirName, "tree-state.json")
}

// ResolvedSnapshotPath returns the snapshot database path with ~ expanded.
func (c *Config) ResolvedSnapshotPath() string {
	return expandHome(c.Snapshots.Path)
}

func expandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
