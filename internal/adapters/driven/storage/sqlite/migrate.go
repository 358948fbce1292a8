package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"slices"
)

// migrate applies every NNN_name.up.sql in fsys newer than the database's
// user_version, each in its own transaction, and returns how many ran.
func migrate(db *sql.DB, fsys fs.FS) (int, error) {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return 0, fmt.Errorf("listing migrations: %w", err)
	}
	slices.Sort(names)

	applied := 0
	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(path.Base(name), "%d_", &version); err != nil || version <= current {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := applyMigration(db, version, string(script)); err != nil {
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		current = version
		applied++
	}
	return applied, nil
}

func applyMigration(db *sql.DB, version int, script string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}
