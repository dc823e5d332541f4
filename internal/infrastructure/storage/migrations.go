package storage

import (
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order.
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_sync_runs_table",
		Up:      migration002AddSyncRunsTable,
	},
	{
		Version: 3,
		Name:    "add_confirmed_orders_table",
		Up:      migration003AddConfirmedOrdersTable,
	},
}

// runMigrations executes all pending migrations.
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
			migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table.
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions.
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// migration001InitialSchema creates the inventory snapshot and the two
// sale ledgers.
func migration001InitialSchema(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
			name TEXT PRIMARY KEY,
			base_name TEXT,
			card_number TEXT,
			display_name TEXT,
			price REAL NOT NULL DEFAULT 0,
			market REAL NOT NULL DEFAULT 0,
			qty INTEGER NOT NULL DEFAULT 1,
			cost REAL NOT NULL DEFAULT 0,
			image TEXT,
			tcg_url TEXT,
			tcg_product_id TEXT,
			set_name TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS pending_sales (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			qty INTEGER NOT NULL DEFAULT 1,
			condition TEXT,
			sold_price REAL NOT NULL DEFAULT 0,
			cost REAL NOT NULL DEFAULT 0,
			platform TEXT,
			order_id TEXT,
			order_total REAL NOT NULL DEFAULT 0,
			sold_date TEXT,
			set_name TEXT,
			card_number TEXT,
			image TEXT,
			tcg_product_id TEXT,
			market REAL NOT NULL DEFAULT 0,
			matched BOOLEAN NOT NULL DEFAULT 0,
			match_score REAL NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS sold_items (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			qty INTEGER NOT NULL DEFAULT 1,
			condition TEXT,
			sold_price REAL NOT NULL DEFAULT 0,
			cost REAL NOT NULL DEFAULT 0,
			platform TEXT,
			order_id TEXT,
			order_total REAL NOT NULL DEFAULT 0,
			sold_date TEXT,
			set_name TEXT,
			card_number TEXT,
			image TEXT,
			tcg_product_id TEXT,
			market REAL NOT NULL DEFAULT 0,
			matched BOOLEAN NOT NULL DEFAULT 0,
			match_score REAL NOT NULL DEFAULT 0,
			profit REAL NOT NULL DEFAULT 0,
			confirmed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_pending_sales_order_id
		 ON pending_sales(order_id)`,

		`CREATE INDEX IF NOT EXISTS idx_sold_items_order_id
		 ON sold_items(order_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// migration002AddSyncRunsTable creates the sync_runs table.
func migration002AddSyncRunsTable(db *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP,
		dry_run BOOLEAN NOT NULL DEFAULT 0,
		items_found INTEGER NOT NULL DEFAULT 0,
		sales_detected INTEGER NOT NULL DEFAULT 0,
		price_changes INTEGER NOT NULL DEFAULT 0,
		total_value REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'started',
		error_message TEXT
	)`

	_, err := db.Exec(query)
	return err
}

// migration003AddConfirmedOrdersTable creates the order-id dedupe set.
func migration003AddConfirmedOrdersTable(db *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS confirmed_orders (
		order_id TEXT PRIMARY KEY,
		confirmed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := db.Exec(query)
	return err
}
