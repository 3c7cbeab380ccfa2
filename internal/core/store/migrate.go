package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schemaVersion = "2"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS quota_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint TEXT NOT NULL,
		cost INTEGER NOT NULL,
		wait_ms INTEGER NOT NULL,
		window_after INTEGER NOT NULL,
		decided_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quota_audit_decided ON quota_audit(decided_at);`,
	`CREATE INDEX IF NOT EXISTS idx_quota_audit_endpoint ON quota_audit(endpoint);`,
	`CREATE TABLE IF NOT EXISTS reports (
		report_id TEXT PRIMARY KEY,
		resource TEXT NOT NULL,
		target TEXT,
		item_count INTEGER NOT NULL,
		total INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		quota_spent INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		payload TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_resource ON reports(resource, finished_at);`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	// tool_version arrived after the first release; older databases lack it.
	if err := s.ensureColumn(ctx, "reports", "tool_version", "TEXT"); err != nil {
		return err
	}

	return s.SetMeta(ctx, "schema_version", schemaVersion)
}

func (s *Store) ensureColumn(ctx context.Context, table, column, columnDef string) error {
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("inspect %s schema: %w", table, err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("inspect %s columns: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s columns: %w", table, err)
	}

	if _, err := s.DB.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, columnDef)); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}

	return nil
}
