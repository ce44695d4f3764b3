package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\nformat: .json\nseed:\n  example_dreams: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, ".json", cfg.Format)
	assert.True(t, cfg.Seed.ExampleDreams)
	assert.Equal(t, "diary.db", cfg.SQLitePath)

	t.Setenv("DREAMDIARY_BACKEND", "memory")
	t.Setenv("DREAMDIARY_SEED_ISOLATE_FAILURES", "true")
	t.Setenv("DREAMDIARY_LOG_LEVEL", "debug")

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.True(t, cfg.Seed.IsolateFailures)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ".json", cfg.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("DREAMDIARY_BACKEND", "postgres")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("bad bool", func(t *testing.T) {
		t.Setenv("DREAMDIARY_SEED_EXAMPLE_DREAMS", "maybe")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend: [fs"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SystemDir, ConfigFile)
	cfg := DefaultConfig()
	cfg.Backend = BackendSQLite
	require.NoError(t, WriteConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}
