package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vidupe.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[scan]
threshold = 8.5
skip = 15
workers = 4
extensions = [".mp4", "mkv"]
exclude = ["trash"]

[hash]
algorithm = "dhash"

[actions]
move_dir = "/tmp/dupes"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8.5, cfg.Scan.Threshold)
	assert.Equal(t, 15, cfg.Scan.Skip)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, []string{".mp4", "mkv"}, cfg.Scan.Extensions)
	assert.Equal(t, []string{"trash"}, cfg.Scan.Exclude)
	assert.Equal(t, "dhash", cfg.Hash.Algorithm)
	assert.Equal(t, "/tmp/dupes", cfg.Actions.MoveDir)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "${VIDUPE_TEST_MISSING_DB_12345}"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIDUPE_TEST_MISSING_DB_12345")

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"VIDUPE_TEST_MISSING_DB_12345"}, cfgErr.Missing)
	assert.Equal(t, path, cfgErr.Path)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[scan]
skip = -3
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "scan.skip"), "expected scan.skip in error, got %v", err)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Scan.Threshold)
	assert.Equal(t, 30, cfg.Scan.Skip)
	assert.Equal(t, 1, cfg.Scan.Workers)
	assert.Contains(t, cfg.Scan.Extensions, ".webm")
	assert.Equal(t, "phash", cfg.Hash.Algorithm)
	assert.Equal(t, "./vidupe.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.FFprobePath)
	assert.Equal(t, 64, cfg.FFmpeg.FrameSide)
	assert.Empty(t, cfg.Actions.MoveDir)
}

func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, `
[scan]
workers = -1
`)

	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Scan.Workers)
}

func TestLoad_EnvVarDefault(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "${VIDUPE_TEST_UNSET_DB_12345:-/var/cache/vidupe.db}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/vidupe.db", cfg.Database.Path)
}

func TestLoad_EnvVarSet(t *testing.T) {
	t.Setenv("VIDUPE_TEST_MOVE_DIR", "/srv/dupes")
	path := writeConfig(t, `
[actions]
move_dir = "${VIDUPE_TEST_MOVE_DIR}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/dupes", cfg.Actions.MoveDir)
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[scan\nskip = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, 30, cfg.Scan.Skip)
}
