package action

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "out", "a.mp4")
	writeFile(t, src, "video")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))

	require.NoError(t, MoveFile(src, dst))

	assert.NoFileExists(t, src)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "video", string(got))
}

func TestMoveFile_DestinationExists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "b.mp4")
	writeFile(t, src, "src")
	writeFile(t, dst, "dst")

	err := MoveFile(src, dst)
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.FileExists(t, src, "source must be left in place")
}

func TestMoveFile_RenameError(t *testing.T) {
	orig := renameFunc
	t.Cleanup(func() { renameFunc = orig })
	boom := errors.New("permission denied")
	renameFunc = func(string, string) error { return boom }

	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	writeFile(t, src, "src")

	err := MoveFile(src, filepath.Join(dir, "b.mp4"))
	assert.ErrorIs(t, err, boom)
	assert.FileExists(t, src)
}

func TestCopyFile_KeepsModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	writeFile(t, src, "content")
	mod := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mod, mod))

	dst := filepath.Join(dir, "b.mp4")
	n, err := copyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len("content")), n)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mod), "mtime = %v, want %v", info.ModTime(), mod)
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := copyFile(filepath.Join(dir, "nope.mp4"), filepath.Join(dir, "b.mp4"))
	assert.ErrorIs(t, err, ErrCopyFailed)
}

func TestUniqueDest(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, filepath.Join(dir, "clip.mp4"), uniqueDest(dir, "clip.mp4", now))

	writeFile(t, filepath.Join(dir, "clip.mp4"), "x")
	stamped := filepath.Join(dir, "clip_20240301120000.mp4")
	assert.Equal(t, stamped, uniqueDest(dir, "clip.mp4", now))

	writeFile(t, stamped, "x")
	assert.Equal(t, filepath.Join(dir, "clip_20240301120000-2.mp4"), uniqueDest(dir, "clip.mp4", now))
}
