package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk configuration (config.yaml).
// Command-line flags override any value set here.
type Config struct {
	Path     string `yaml:"path"`
	Adapter  string `yaml:"adapter" validate:"omitempty,oneof=fs sqlite"`
	ReadOnly bool   `yaml:"read_only"`
	Dev      bool   `yaml:"dev"`
	LogLevel string `yaml:"log_level" default:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// DefaultConfigPath returns <user config dir>/notepad/config.yaml, or "" when
// the user config dir cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// LoadConfig reads the YAML configuration at path.
// A missing file yields a zero Config unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("set config defaults: %w", err)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Fields present but empty in the file get their defaults back.
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("set config defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if cfg.Path != "" && !filepath.IsAbs(cfg.Path) {
		// Relative store paths are relative to the config file.
		cfg.Path = filepath.Join(filepath.Dir(path), cfg.Path)
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// Options converts the configuration into functional options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Adapter != "" {
		opts = append(opts, WithAdapter(c.Adapter))
	}
	if c.ReadOnly {
		opts = append(opts, WithReadOnly(true))
	}
	if c.Dev {
		opts = append(opts, WithDevMode(true))
	}
	return opts
}

// Level parses LogLevel, defaulting to Info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil || c.LogLevel == "" {
		return slog.LevelInfo
	}
	return level
}
