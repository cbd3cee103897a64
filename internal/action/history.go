package action

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// History actions.
const (
	ActionDeleted = "deleted"
	ActionMoved   = "moved"
	ActionKept    = "kept"
	ActionFailed  = "failed"
)

// HistoryEntry records one resolved pair.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"` // the file acted on (or the second file when both were kept)
	KeptPath  string    `json:"kept_path,omitempty"`
	DestPath  string    `json:"dest_path,omitempty"` // move target, empty otherwise
	Distance  float64   `json:"distance"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryFilter specifies criteria for listing history.
type HistoryFilter struct {
	RunID  string
	Action string
	Limit  int
}

// HistoryStore persists history entries in the actions table.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a history store.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// NewRunID returns an identifier grouping the actions of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// Add inserts a new entry. Sets ID and CreatedAt.
func (s *HistoryStore) Add(ctx context.Context, h *HistoryEntry) error {
	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO actions (run_id, action, path, kept_path, dest_path, distance, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.RunID, h.Action, h.Path, h.KeptPath, h.DestPath, h.Distance, h.Error, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	h.ID = id
	h.CreatedAt = now
	return nil
}

// List returns entries matching the filter, newest first.
func (s *HistoryStore) List(ctx context.Context, f HistoryFilter) ([]*HistoryEntry, error) {
	var conditions []string
	var args []any

	if f.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, f.Action)
	}

	query := `SELECT id, run_id, action, path, kept_path, dest_path, distance, error, created_at FROM actions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.RunID, &h.Action, &h.Path, &h.KeptPath, &h.DestPath, &h.Distance, &h.Error, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, h)
	}
	return results, rows.Err()
}
