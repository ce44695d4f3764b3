package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/dreamdiary/internal/atomicfile"
)

// Backend names.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the per-vault configuration. It is read from
// {root}/.dreamdiary/config.yaml and then overridden by the environment.
type Config struct {
	Backend    string     `yaml:"backend" json:"backend" env:"DREAMDIARY_BACKEND"`
	Format     string     `yaml:"format" json:"format" env:"DREAMDIARY_FORMAT"`
	SQLitePath string     `yaml:"sqlite_path" json:"sqlite_path" env:"DREAMDIARY_SQLITE_PATH"`
	LogLevel   string     `yaml:"log_level" json:"log_level" env:"DREAMDIARY_LOG_LEVEL"`
	Seed       SeedConfig `yaml:"seed" json:"seed"`
}

// SeedConfig controls first-run seeding.
type SeedConfig struct {
	IsolateFailures bool `yaml:"isolate_failures" json:"isolate_failures" env:"DREAMDIARY_SEED_ISOLATE_FAILURES"`
	ExampleDreams   bool `yaml:"example_dreams" json:"example_dreams" env:"DREAMDIARY_SEED_EXAMPLE_DREAMS"`
}

// DefaultConfig returns the configuration of a fresh vault.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendFS,
		Format:     ".md",
		SQLitePath: "diary.db",
		LogLevel:   "info",
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports unknown backends, formats and log levels.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFS, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch normalizeFormat(c.Format) {
	case ".md", ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("unknown record format %q", c.Format)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// WriteConfig stores cfg at path, creating parent directories.
func WriteConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return atomicfile.WriteFile(path, data, 0o644)
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
// The empty string is info.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func normalizeFormat(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
