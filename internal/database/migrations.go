package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in order at startup. The schema ships embedded in
// the binary; there is no migrations directory to deploy.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_visit_events",
		SQL: `
			CREATE TABLE IF NOT EXISTS visit_events (
				id TEXT PRIMARY KEY,
				box_id INTEGER NOT NULL,
				visited_at TEXT NOT NULL,
				observed_fill REAL NOT NULL,
				expected_fill REAL NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_visit_events_box ON visit_events(box_id);
			CREATE INDEX IF NOT EXISTS idx_visit_events_time ON visit_events(visited_at);
		`,
	},
	{
		Version: 2,
		Name:    "create_box_visit_state",
		SQL: `
			CREATE TABLE IF NOT EXISTS box_visit_state (
				box_id INTEGER PRIMARY KEY,
				last_visit TEXT NOT NULL,
				visit_history TEXT NOT NULL DEFAULT '[]'
			);
		`,
	},
}

// Migrate applies all pending migrations to the database.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func apply(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(m.SQL); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
