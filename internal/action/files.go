package action

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Replaceable for tests that simulate EXDEV and permission failures.
var (
	renameFunc = os.Rename
	removeFunc = os.Remove
)

// MoveFile moves src to dst. dst must not exist. A rename across
// filesystems falls back to copy and remove.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return ErrDestinationExists
	} else if !os.IsNotExist(err) {
		return err
	}

	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return err
	}

	if _, err := copyFile(src, dst); err != nil {
		return err
	}
	if err := removeFunc(src); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// copyFile copies src to a new file dst, keeping the source mode and mtime.
func copyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %v", ErrCopyFailed, err)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}
	if err := dstFile.Sync(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return size, nil
}

// uniqueDest returns dir/name, or a name with a timestamp suffix when that
// is taken, e.g. clip_20240301120000.mp4, then clip_20240301120000-2.mp4.
func uniqueDest(dir, name string, now time.Time) string {
	dst := filepath.Join(dir, name)
	if !exists(dst) {
		return dst
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	stamp := now.Format("20060102150405")

	dst = filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, stamp, ext))
	for i := 2; exists(dst); i++ {
		dst = filepath.Join(dir, fmt.Sprintf("%s_%s-%d%s", base, stamp, i, ext))
	}
	return dst
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
