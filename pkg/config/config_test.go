package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "taskcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesEnvExpansion(t *testing.T) {
	t.Setenv("TASKCORE_OUTPUT", "/tmp/runs")
	path := writeConfig(t, "subject: demo\noutput_dir: ${TASKCORE_OUTPUT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "demo", cfg.Subject)
	require.Equal(t, "/tmp/runs", cfg.OutputDir)
}

func TestLoadDecodesDefaultsOverride(t *testing.T) {
	path := writeConfig(t, "defaults:\n  blocks_per_row: 3\n  log_format: yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Defaults)
	require.NotNil(t, cfg.Defaults.BlocksPerRow)
	require.Equal(t, 3, *cfg.Defaults.BlocksPerRow)
	require.NotNil(t, cfg.Defaults.LogFormat)
	require.Equal(t, "yaml", *cfg.Defaults.LogFormat)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	path := writeConfig(t, "log_level: verbose\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
