// Package config loads beehive's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths locates the documents beehive reads and writes.
type Paths struct {
	Words    string `toml:"words"`
	Puzzles  string `toml:"puzzles"`
	Database string `toml:"database"`
}

// Fetch configures the puzzle page scraper.
type Fetch struct {
	URL            string `toml:"url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxBodyBytes   int64  `toml:"max_body_bytes"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full configuration.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Fetch   Fetch   `toml:"fetch"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			Words:    filepath.Join("xml", "words.xml"),
			Puzzles:  filepath.Join("xml", "puzzles.xml"),
			Database: "beehive.db",
		},
		Fetch: Fetch{
			URL:            "https://www.nytimes.com/puzzles/spelling-bee",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			TimeoutSeconds: 30,
			MaxBodyBytes:   10 * 1024 * 1024,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/beehive/config.toml")
}

// Load reads the configuration at path over the defaults. An empty path uses
// the default location, which may be absent. It returns the resolved path and
// whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	resolved := path
	var err error
	if explicit {
		resolved, err = expandPath(path)
	} else {
		resolved, err = DefaultConfigPath()
	}
	if err != nil {
		return nil, "", false, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file; defaults apply.
	default:
		return nil, resolved, false, fmt.Errorf("read config: %w", err)
	}
	found := err == nil

	if err := cfg.normalize(); err != nil {
		return nil, resolved, found, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, found, err
	}
	return &cfg, resolved, found, nil
}

func (c *Config) normalize() error {
	var err error
	for _, p := range []*string{&c.Paths.Words, &c.Paths.Puzzles, &c.Paths.Database} {
		if *p, err = expandPath(*p); err != nil {
			return err
		}
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Paths.Words == "" {
		return errors.New("paths.words must be set")
	}
	if c.Paths.Puzzles == "" {
		return errors.New("paths.puzzles must be set")
	}
	if c.Paths.Words == c.Paths.Puzzles {
		return errors.New("paths.words and paths.puzzles must differ")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive, got %d", c.Fetch.MaxBodyBytes)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
