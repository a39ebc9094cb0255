package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	if err := createNeedleSetsTable(db); err != nil {
		return fmt.Errorf("creating needle_sets table: %w", err)
	}
	if err := createRunsTable(db); err != nil {
		return fmt.Errorf("creating runs table: %w", err)
	}
	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}
	return nil
}

func createNeedleSetsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS needle_sets (
			name TEXT PRIMARY KEY NOT NULL,
			structural_id TEXT NOT NULL,
			needles_json TEXT NOT NULL
		)
	`)
	return err
}

func createRunsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			needle_set_id TEXT NOT NULL,
			input_bytes INTEGER NOT NULL,
			output_bytes INTEGER NOT NULL,
			elide_count INTEGER NOT NULL,
			needle_hits_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_runs_needle_set_id ON runs(needle_set_id)
	`)
	return err
}
