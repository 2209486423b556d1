package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "wadcompat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "specs: wads/compat\ndigest_algorithm: sha256\nlog_level: info\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wads/compat", cfg.Specs)
	assert.Equal(t, "sha256", cfg.DigestAlgorithm)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("WADCOMPAT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad algorithm", "digest_algorithm: crc32\n", "digest_algorithm"},
		{"bad log level", "log_level: loud\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	cfg.LogLevel = "ERROR"
	level, err = cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, level)
}

func TestNewLoggerVerboseForcesDebug(t *testing.T) {
	buf := &bytes.Buffer{}

	newLogger(buf, DefaultConfig(), false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(buf, DefaultConfig(), true).Debug("shown", "name", "comp_jump")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "name=comp_jump")
}
