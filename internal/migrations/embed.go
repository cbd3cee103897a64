// Package migrations provides embedded SQL migration files.
package migrations

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/001_initial.sql
var InitialSQL string

//go:embed sql/002_actions.sql
var Migration002Actions string

// All lists migrations in the order they are applied. Each is idempotent.
var All = []string{InitialSQL, Migration002Actions}

// Apply runs every migration against db.
func Apply(db *sql.DB) error {
	for i, m := range All {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %03d: %w", i+1, err)
		}
	}
	return nil
}
