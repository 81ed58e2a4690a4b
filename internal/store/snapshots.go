package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one cached report result keyed by its query parameters.
type Snapshot struct {
	ID         string          `json:"id"`
	Credential string          `json:"credential"` // fingerprint
	Report     string          `json:"report"`
	PartnerID  int             `json:"partner_id"`
	StartDate  int64           `json:"start_date"`
	EndDate    int64           `json:"end_date"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SaveSnapshot upserts a report snapshot; re-running the same query window
// replaces the previous payload.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(snap.Report) == "" {
		return errors.New("snapshot report name is required")
	}
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO report_snapshots (id, credential, report, partner_id, start_date, end_date, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(credential, report, partner_id, start_date, end_date) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at
	`, snap.ID, snap.Credential, snap.Report, snap.PartnerID, snap.StartDate, snap.EndDate,
		string(snap.Payload), snap.CreatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store report snapshot: %w", err)
	}

	return nil
}

// GetSnapshot returns the cached payload for a query window, or nil when the
// window has never been fetched.
func (s *Store) GetSnapshot(ctx context.Context, credential, report string, partnerID int, startDate, endDate int64) (*Snapshot, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, credential, report, partner_id, start_date, end_date, payload, created_at
		FROM report_snapshots
		WHERE credential = ? AND report = ? AND partner_id = ? AND start_date = ? AND end_date = ?
	`, credential, report, partnerID, startDate, endDate)

	var (
		snap      Snapshot
		payload   string
		createdAt int64
	)
	if err := row.Scan(&snap.ID, &snap.Credential, &snap.Report, &snap.PartnerID,
		&snap.StartDate, &snap.EndDate, &payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch report snapshot: %w", err)
	}

	snap.Payload = json.RawMessage(payload)
	snap.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &snap, nil
}
