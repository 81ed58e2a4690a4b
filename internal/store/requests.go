package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/regosbridge/regosbridge/internal/regos"
)

// RecordRequest appends one terminal outcome to the request log. The store
// satisfies regos.RequestRecorder.
func (s *Store) RecordRequest(ctx context.Context, rec regos.RequestRecord) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id is required")
	}

	var status sql.NullInt64
	if rec.StatusCode != 0 {
		status = sql.NullInt64{Int64: int64(rec.StatusCode), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO request_log (id, credential, endpoint, outcome, status_code, attempts, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Credential, rec.Endpoint, string(rec.Kind), status, rec.Attempts,
		rec.Duration.Milliseconds(), rec.CreatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store request record: %w", err)
	}

	return nil
}

// RequestLogFilter narrows ListRequests output. Zero values mean no filter.
type RequestLogFilter struct {
	Credential string // fingerprint
	Endpoint   string
	Kind       regos.Kind
	Since      time.Time
	Limit      int
}

// ListRequests returns logged outcomes, newest first.
func (s *Store) ListRequests(ctx context.Context, filter RequestLogFilter) ([]regos.RequestRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, credential, endpoint, outcome, status_code, attempts, duration_ms, created_at
		FROM request_log
		WHERE 1=1`)
	var args []any

	if filter.Credential != "" {
		query.WriteString(" AND credential = ?")
		args = append(args, filter.Credential)
	}
	if filter.Endpoint != "" {
		query.WriteString(" AND endpoint = ?")
		args = append(args, filter.Endpoint)
	}
	if filter.Kind != "" {
		query.WriteString(" AND outcome = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Since.IsZero() {
		query.WriteString(" AND created_at >= ?")
		args = append(args, filter.Since.UTC().Unix())
	}

	query.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query.WriteString(" LIMIT ?")
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list request log: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var records []regos.RequestRecord
	for rows.Next() {
		var (
			rec        regos.RequestRecord
			kind       string
			status     sql.NullInt64
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Credential, &rec.Endpoint, &kind, &status,
			&rec.Attempts, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan request record: %w", err)
		}
		rec.Kind = regos.Kind(kind)
		if status.Valid {
			rec.StatusCode = int(status.Int64)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list request log: %w", err)
	}

	return records, nil
}

// PruneRequests deletes log entries older than the cutoff and reports how
// many were removed.
func (s *Store) PruneRequests(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM request_log WHERE created_at < ?`, before.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune request log: %w", err)
	}
	return result.RowsAffected()
}
