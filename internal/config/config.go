package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"stanctl/pkg/cmdstan"
)

const (
	defaultKeepFor  = 72 * time.Hour
	defaultDebounce = 400 * time.Millisecond
)

// Config captures the persisted stanctl settings stored under the install
// root. Durations are kept as strings so hand-edited files stay readable.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Path    string        `yaml:"path,omitempty" json:"path,omitempty"`
	Ranking string        `yaml:"ranking" json:"ranking"`
	Scratch ScratchConfig `yaml:"scratch" json:"scratch"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// ScratchConfig controls the session scratch area.
type ScratchConfig struct {
	KeepFor string `yaml:"keep_for" json:"keep_for"`
}

// WatchConfig tunes the install root watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce" json:"debounce"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Ranking: string(cmdstan.RankSemver),
		Scratch: ScratchConfig{
			KeepFor: "72h",
		},
		Watch: WatchConfig{
			Debounce: "400ms",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to sensible defaults when the YAML
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Ranking == "" {
		c.Ranking = defaults.Ranking
	}
	if c.Scratch.KeepFor == "" {
		c.Scratch.KeepFor = defaults.Scratch.KeepFor
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// Save writes the configuration atomically, replacing any previous file.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare config directory: %w", err)
	}

	buf, err := cfg.Marshal()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write config temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close config temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// RankingMode returns the effective discovery ordering. Unknown values fall
// back to the default; Validate reports them.
func (c Config) RankingMode() cmdstan.RankingMode {
	if c.Ranking == string(cmdstan.RankLexicographic) {
		return cmdstan.RankLexicographic
	}
	return cmdstan.RankSemver
}

// KeepFor returns the scratch retention window. Unparseable values fall back
// to the default; Validate reports them.
func (c Config) KeepFor() time.Duration {
	d, err := time.ParseDuration(c.Scratch.KeepFor)
	if err != nil || d < 0 {
		return defaultKeepFor
	}
	return d
}

// Debounce returns the watcher settle delay. Unparseable values fall back to
// the default; Validate reports them.
func (c Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return defaultDebounce
	}
	return d
}
