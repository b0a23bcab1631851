// Package config loads and saves the promptml YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/promptml/promptml/internal/markup"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "PROMPTML_CONFIG"

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Render  RenderConfig  `yaml:"render"`
	Import  ImportConfig  `yaml:"import"`
	Web     WebConfig     `yaml:"web"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	// Path of the SQLite database file.
	Path string `yaml:"path"`
	// HistoryKeep caps the number of history rows retained after each
	// recorded operation.
	HistoryKeep int `yaml:"history_keep"`
	// HistoryRetentionDays bounds history age; the web server sweeps
	// older rows periodically.
	HistoryRetentionDays int `yaml:"history_retention_days"`
}

type RenderConfig struct {
	// IndentWidth is the default indent for rendering; the engine
	// clamps it to its supported range either way.
	IndentWidth int `yaml:"indent_width"`
}

type ImportConfig struct {
	// MaxInputBytes caps the size of text handed to the parser. The
	// parser is bounded only by input size, so the cap is enforced by
	// callers before invoking it.
	MaxInputBytes int64 `yaml:"max_input_bytes"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Path:                 defaultStoragePath(),
			HistoryKeep:          500,
			HistoryRetentionDays: 30,
		},
		Render:  RenderConfig{IndentWidth: markup.DefaultIndentWidth},
		Import:  ImportConfig{MaxInputBytes: 1 << 20},
		Web:     WebConfig{Port: 18090},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Path returns the config file location: $PROMPTML_CONFIG if set,
// otherwise ~/.promptml/config.yaml.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".promptml", "config.yaml")
}

// Load reads the config file, filling unset fields with defaults. A
// missing file is not an error; the defaults are returned.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file, creating its directory if needed.
func (c Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Storage.HistoryKeep <= 0 {
		c.Storage.HistoryKeep = def.Storage.HistoryKeep
	}
	if c.Storage.HistoryRetentionDays <= 0 {
		c.Storage.HistoryRetentionDays = def.Storage.HistoryRetentionDays
	}
	if c.Import.MaxInputBytes <= 0 {
		c.Import.MaxInputBytes = def.Import.MaxInputBytes
	}
	if c.Web.Port <= 0 {
		c.Web.Port = def.Web.Port
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".promptml", "promptml.db")
}
