package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tubelens/tubelens/internal/core/quota"
)

// QuotaAuditEntry is one persisted admission decision. The audit trail is
// observability only; the live window stays in memory.
type QuotaAuditEntry struct {
	ID          int64
	Endpoint    string
	Cost        int
	WaitMs      int64
	WindowAfter int
	DecidedAt   time.Time
}

// RecordQuotaAudit appends one admission decision to the audit trail.
func (s *Store) RecordQuotaAudit(ctx context.Context, endpoint string, admission quota.Admission) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.New("endpoint is required")
	}

	decidedAt := admission.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO quota_audit (endpoint, cost, wait_ms, window_after, decided_at)
		VALUES (?, ?, ?, ?, ?)
	`, endpoint, admission.Cost, admission.Wait.Milliseconds(), admission.WindowAfter, decidedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store quota audit: %w", err)
	}

	return nil
}

// SumQuotaAuditSince totals recorded spend with decisions at or after the
// cutoff.
func (s *Store) SumQuotaAuditSince(ctx context.Context, cutoff time.Time) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var total int
	row := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost), 0)
		FROM quota_audit
		WHERE decided_at >= ?
	`, cutoff.UTC().Unix())
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("sum quota audit: %w", err)
	}

	return total, nil
}
