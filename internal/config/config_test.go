package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.yaml")
	content := []byte("database:\n  path: /tmp/file.db\nserver:\n  addr: \":9000\"\nshell:\n  language: zh-CN\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("HABITS_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("HABITS_SERVER_GIN_MODE", "debug")
	t.Setenv("HABITS_LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "zh", cfg.Shell.Language)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HABITS_LOG_FORMAT", "xml")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.gin_mode", envKey("HABITS_SERVER_GIN_MODE"))
	assert.Equal(t, "database.path", envKey("HABITS_DATABASE_PATH"))
	assert.Equal(t, "debug", envKey("HABITS_DEBUG"))
}

func TestLoadRejectsUnknownGinMode(t *testing.T) {
	t.Setenv("HABITS_SERVER_GIN_MODE", "production")
	_, err := Load("")
	assert.ErrorContains(t, err, "server.gin_mode")
}
