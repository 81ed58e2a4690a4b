package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS request_log (
		id TEXT PRIMARY KEY,
		credential TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		outcome TEXT NOT NULL,
		status_code INTEGER,
		attempts INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_request_log_created ON request_log(created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_request_log_credential ON request_log(credential, created_at);`,
	`CREATE TABLE IF NOT EXISTS report_snapshots (
		id TEXT PRIMARY KEY,
		credential TEXT NOT NULL,
		report TEXT NOT NULL,
		partner_id INTEGER NOT NULL,
		start_date INTEGER NOT NULL,
		end_date INTEGER NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(credential, report, partner_id, start_date, end_date)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_snapshots_created ON report_snapshots(created_at);`,
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

	return nil
}
