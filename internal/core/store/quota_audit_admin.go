package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// QuotaAuditQuery selects audit rows for listing or reset.
type QuotaAuditQuery struct {
	All      bool
	Endpoint string
	Prefix   string
}

func (q QuotaAuditQuery) Validate() error {
	if q.All {
		return nil
	}
	if strings.TrimSpace(q.Endpoint) != "" {
		return nil
	}
	if strings.TrimSpace(q.Prefix) != "" {
		return nil
	}
	return errors.New("must specify --all, --endpoint, or --prefix")
}

func (q QuotaAuditQuery) whereClause() (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	if q.All {
		return "", nil, nil
	}
	if endpoint := strings.TrimSpace(q.Endpoint); endpoint != "" {
		return "WHERE endpoint = ?", []any{endpoint}, nil
	}
	prefix := strings.TrimSpace(q.Prefix)
	if prefix == "" {
		return "", nil, errors.New("prefix is required")
	}
	return "WHERE endpoint LIKE ?", []any{prefix + "%"}, nil
}

// ListQuotaAudit returns matching audit entries, most recent first.
func (s *Store) ListQuotaAudit(ctx context.Context, q QuotaAuditQuery, limit int) ([]QuotaAuditEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, endpoint, cost, wait_ms, window_after, decided_at
		FROM quota_audit
		%s
		ORDER BY decided_at DESC, id DESC
	`, where)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quota audit: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	entries := []QuotaAuditEntry{}
	for rows.Next() {
		var (
			entry     QuotaAuditEntry
			decidedAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.Endpoint, &entry.Cost, &entry.WaitMs, &entry.WindowAfter, &decidedAt); err != nil {
			return nil, fmt.Errorf("scan quota audit: %w", err)
		}
		entry.DecidedAt = time.Unix(decidedAt, 0).UTC()

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quota audit: %w", err)
	}

	return entries, nil
}

// CountQuotaAudit returns the number of matching audit entries.
func (s *Store) CountQuotaAudit(ctx context.Context, q QuotaAuditQuery) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM quota_audit
		%s
	`, where), args...)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count quota audit: %w", err)
	}
	return count, nil
}

// ResetQuotaAudit deletes matching audit entries and reports how many went.
func (s *Store) ResetQuotaAudit(ctx context.Context, q QuotaAuditQuery) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM quota_audit
		%s
	`, where), args...)
	if err != nil {
		return 0, fmt.Errorf("reset quota audit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset quota audit: %w", err)
	}
	return affected, nil
}
