// Package config loads the graphschema CLI configuration.
//
// Configuration is a single YAML file, by default ~/.graphschema/config.yaml:
//
//	catalog: /path/to/catalog.db   # snapshot history database
//	log_level: info                # debug, info, warn or error
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// appDir is the directory name under the user's home directory.
	appDir = ".graphschema"

	// configFile is the file name of the configuration inside appDir.
	configFile = "config.yaml"

	// catalogFile is the default catalog database inside appDir.
	catalogFile = "catalog.db"

	// EnvPath overrides the configuration file location.
	EnvPath = "GRAPHSCHEMA_CONFIG"
)

// Config holds the CLI settings.
type Config struct {
	// Catalog is the path of the snapshot catalog database.
	Catalog string `yaml:"catalog"`

	// LogLevel is the minimum level logged to stderr.
	LogLevel string `yaml:"log_level"`
}

// DefaultPath returns the configuration path: $GRAPHSCHEMA_CONFIG if set,
// otherwise ~/.graphschema/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, appDir, configFile), nil
}

// Load reads the configuration at path. A missing file yields the defaults;
// the catalog defaults to catalog.db next to the configuration file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Catalog:  filepath.Join(filepath.Dir(path), catalogFile),
		LogLevel: "info",
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// EnsureCatalogDir creates the directory holding the catalog database.
func (c *Config) EnsureCatalogDir() error {
	if err := os.MkdirAll(filepath.Dir(c.Catalog), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	return nil
}
