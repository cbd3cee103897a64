// Package fingerprint persists keyframe fingerprints keyed by file path and
// modification time, so unchanged files are not decoded again.
package fingerprint

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/vidupe/internal/phash"
	"github.com/vmunix/vidupe/internal/video"
)

// Store is the SQLite-backed fingerprint cache.
// Reads may run concurrently; writes are serialized.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore creates a store on a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Key normalizes a path into its cache key. Paths are cleaned and put into
// Unicode NFC so that decomposed filenames (macOS) hit the same entry.
func Key(path string) string {
	return norm.NFC.String(filepath.Clean(path))
}

func encodeFingerprints(fps []phash.Fingerprint) []byte {
	buf := make([]byte, 8*len(fps))
	for i, fp := range fps {
		binary.BigEndian.PutUint64(buf[i*8:], uint64(fp))
	}
	return buf
}

func decodeFingerprints(buf []byte) ([]phash.Fingerprint, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(buf))
	}
	fps := make([]phash.Fingerprint, len(buf)/8)
	for i := range fps {
		fps[i] = phash.Fingerprint(binary.BigEndian.Uint64(buf[i*8:]))
	}
	return fps, nil
}

const selectCols = "path, mod_time_ns, size_bytes, frame_skip, algorithm, frame_count, fingerprints, processed_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*video.Record, error) {
	var (
		r         video.Record
		modNS     int64
		algo      string
		count     int
		blob      []byte
		processed time.Time
	)
	if err := row.Scan(&r.Path, &modNS, &r.Size, &r.Params.Skip, &algo, &count, &blob, &processed); err != nil {
		return nil, err
	}
	fps, err := decodeFingerprints(blob)
	if err != nil {
		return nil, err
	}
	if len(fps) != count {
		return nil, fmt.Errorf("%w: frame_count %d, decoded %d", ErrCorrupt, count, len(fps))
	}
	r.ModTime = time.Unix(0, modNS)
	r.Params.Algorithm = phash.Algorithm(algo)
	r.Fingerprints = fps
	r.ProcessedAt = processed
	return &r, nil
}

// Get returns the entry for path regardless of freshness.
// Returns ErrNotFound if there is none.
func (s *Store) Get(ctx context.Context, path string) (*video.Record, error) {
	key := Key(path)
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		"SELECT "+selectCols+" FROM videos WHERE path = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &CacheIOError{Op: "get", Path: key, Err: err}
	}
	return rec, nil
}

// Lookup returns the cached record for path if it is still valid for a
// file last modified at modTime and sampled with p. A stale entry is a miss.
func (s *Store) Lookup(ctx context.Context, path string, modTime time.Time, p video.Params) (*video.Record, bool, error) {
	rec, err := s.Get(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		var cerr *CacheIOError
		if errors.As(err, &cerr) {
			cerr.Op = "lookup"
		}
		return nil, false, err
	}
	if rec.ModTime.UnixNano() != modTime.UnixNano() || rec.Params != p {
		return nil, false, nil
	}
	return rec, true, nil
}

// Save inserts or replaces the entry for r.Path.
func (s *Store) Save(ctx context.Context, r *video.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(r.Path)
	processed := r.ProcessedAt
	if processed.IsZero() {
		processed = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (disk_path, `+selectCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			disk_path = excluded.disk_path,
			mod_time_ns = excluded.mod_time_ns,
			size_bytes = excluded.size_bytes,
			frame_skip = excluded.frame_skip,
			algorithm = excluded.algorithm,
			frame_count = excluded.frame_count,
			fingerprints = excluded.fingerprints,
			processed_at = excluded.processed_at`,
		filepath.Clean(r.Path), key, r.ModTime.UnixNano(), r.Size, r.Params.Skip, string(r.Params.Algorithm),
		len(r.Fingerprints), encodeFingerprints(r.Fingerprints), processed,
	)
	if err != nil {
		return &CacheIOError{Op: "save", Path: key, Err: err}
	}
	r.ProcessedAt = processed
	return nil
}

// Delete removes the entry for path. Deleting a missing entry is not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(path)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE path = ?", key); err != nil {
		return &CacheIOError{Op: "delete", Path: key, Err: err}
	}
	return nil
}

// Rename re-keys the entry for a file that was moved. Any entry already at
// newPath is replaced. Returns ErrNotFound if oldPath has no entry.
func (s *Store) Rename(ctx context.Context, oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldKey, newKey := Key(oldPath), Key(newPath)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &CacheIOError{Op: "rename", Path: oldKey, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM videos WHERE path = ?", newKey); err != nil {
		return &CacheIOError{Op: "rename", Path: newKey, Err: err}
	}
	res, err := tx.ExecContext(ctx, "UPDATE videos SET path = ?, disk_path = ? WHERE path = ?",
		newKey, filepath.Clean(newPath), oldKey)
	if err != nil {
		return &CacheIOError{Op: "rename", Path: oldKey, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return &CacheIOError{Op: "rename", Path: oldKey, Err: err}
	}
	return nil
}

// List returns every entry ordered by path.
func (s *Store) List(ctx context.Context) ([]*video.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectCols+" FROM videos ORDER BY path")
	if err != nil {
		return nil, &CacheIOError{Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []*video.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &CacheIOError{Op: "list", Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &CacheIOError{Op: "list", Err: err}
	}
	return out, nil
}

// Prune removes entries whose file no longer exists according to exists,
// which is given the path as last seen on disk rather than the NFC key.
// An optional prefix restricts pruning to paths under that directory.
// Returns the number of entries removed.
func (s *Store) Prune(ctx context.Context, prefix string, exists func(path string) bool) (int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, disk_path FROM videos ORDER BY path")
	if err != nil {
		return 0, &CacheIOError{Op: "prune", Err: err}
	}
	var stale []string
	for rows.Next() {
		var key, disk string
		if err := rows.Scan(&key, &disk); err != nil {
			_ = rows.Close()
			return 0, &CacheIOError{Op: "prune", Err: err}
		}
		if prefix != "" && !under(key, Key(prefix)) {
			continue
		}
		if disk == "" {
			disk = key
		}
		if !exists(disk) {
			stale = append(stale, key)
		}
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return 0, &CacheIOError{Op: "prune", Err: err}
	}

	for _, p := range stale {
		if err := s.Delete(ctx, p); err != nil {
			return 0, err
		}
	}
	return int64(len(stale)), nil
}

func under(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// Clear removes every entry. Returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM videos")
	if err != nil {
		return 0, &CacheIOError{Op: "clear", Err: err}
	}
	return res.RowsAffected()
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries   int
	Frames    int64
	SizeBytes int64 // total size of the cached videos
}

// Stats returns entry, frame and size totals.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(frame_count), 0), COALESCE(SUM(size_bytes), 0) FROM videos",
	).Scan(&st.Entries, &st.Frames, &st.SizeBytes)
	if err != nil {
		return Stats{}, &CacheIOError{Op: "stats", Err: err}
	}
	return st, nil
}
