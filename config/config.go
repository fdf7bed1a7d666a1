// Package config loads the optional photos-manager TOML configuration file.
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

// Logging controls log output
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Border holds defaults for the border command
type Border struct {
	Thickness string `toml:"thickness"`
}

// Order holds defaults for the order command
type Order struct {
	// Lock guards a target tree against two concurrent order runs.
	Lock bool `toml:"lock"`
}

// Config is the full configuration file
type Config struct {
	Workers int     `toml:"workers"`
	Logging Logging `toml:"logging"`
	Border  Border  `toml:"border"`
	Order   Order   `toml:"order"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		Workers: 0,
		Logging: Logging{Level: "info", Format: "console"},
		Border:  Border{Thickness: "medium"},
		Order:   Order{Lock: true},
	}
}

// DefaultConfigPath returns ~/.config/photos-manager/config.toml
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/photos-manager/config.toml")
}

// Load reads the file at path, or the default location when path is empty.
// A missing file is not an error; defaults are returned instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Border.Thickness = strings.ToLower(strings.TrimSpace(c.Border.Thickness))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Border.Thickness == "" {
		c.Border.Thickness = "medium"
	}
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers: must be >= 0, got %d", c.Workers)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Border.Thickness {
	case "thin", "medium", "thick":
	default:
		return fmt.Errorf("border.thickness: unsupported value %q", c.Border.Thickness)
	}
	return nil
}

func resolvePath(path string) (string, bool, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
	} else {
		var err error
		path, err = expandPath(path)
		if err != nil {
			return "", false, err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", path)
	}
	return path, true, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
