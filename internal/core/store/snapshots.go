package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tubelens/tubelens/internal/core"
)

// ReportSummary is the row-level view of a stored report, without the item
// payload.
type ReportSummary struct {
	ReportID    string            `json:"report_id"`
	Resource    core.ResourceKind `json:"resource"`
	Target      string            `json:"target,omitempty"`
	Count       int               `json:"count"`
	Total       int               `json:"total"`
	Pages       int               `json:"pages"`
	QuotaSpent  int               `json:"quota_spent"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	ToolVersion string            `json:"tool_version,omitempty"`
}

// SaveReport stores a finished fetch report. The full report is kept as JSON;
// summary columns are denormalized for listing.
func (s *Store) SaveReport(ctx context.Context, report *core.FetchReport) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if report == nil {
		return errors.New("report is required")
	}
	if strings.TrimSpace(report.ReportID) == "" {
		return errors.New("report id is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO reports (report_id, resource, target, item_count, total, pages, quota_spent, started_at, finished_at, tool_version, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(report_id) DO UPDATE SET
			resource = excluded.resource,
			target = excluded.target,
			item_count = excluded.item_count,
			total = excluded.total,
			pages = excluded.pages,
			quota_spent = excluded.quota_spent,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			tool_version = excluded.tool_version,
			payload = excluded.payload
	`, report.ReportID, string(report.Resource), report.Target, report.Count, report.Total,
		report.Pages, report.QuotaSpent, report.StartedAt.UTC().Unix(), report.FinishedAt.UTC().Unix(),
		report.ToolVersion, string(payload))
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	return nil
}

// GetReport returns a stored report by id, or nil when absent.
func (s *Store) GetReport(ctx context.Context, reportID string) (*core.FetchReport, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, errors.New("report id is required")
	}

	var payload string
	if err := s.DB.QueryRowContext(ctx, `SELECT payload FROM reports WHERE report_id = ?`, reportID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch report: %w", err)
	}

	report := &core.FetchReport{}
	if err := json.Unmarshal([]byte(payload), report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return report, nil
}

// ListReports returns stored report summaries, most recently finished first.
// An empty resource lists every kind.
func (s *Store) ListReports(ctx context.Context, resource core.ResourceKind, limit int) ([]ReportSummary, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	where := ""
	args := []any{}
	if resource != "" {
		where = "WHERE resource = ?"
		args = append(args, string(resource))
	}

	query := fmt.Sprintf(`
		SELECT report_id, resource, target, item_count, total, pages, quota_spent, started_at, finished_at, COALESCE(tool_version, '')
		FROM reports
		%s
		ORDER BY finished_at DESC, report_id
	`, where)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	summaries := []ReportSummary{}
	for rows.Next() {
		var (
			summary    ReportSummary
			resource   string
			startedAt  int64
			finishedAt int64
		)
		if err := rows.Scan(&summary.ReportID, &resource, &summary.Target, &summary.Count, &summary.Total,
			&summary.Pages, &summary.QuotaSpent, &startedAt, &finishedAt, &summary.ToolVersion); err != nil {
			return nil, fmt.Errorf("scan reports: %w", err)
		}
		summary.Resource = core.ResourceKind(resource)
		summary.StartedAt = time.Unix(startedAt, 0).UTC()
		summary.FinishedAt = time.Unix(finishedAt, 0).UTC()

		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	return summaries, nil
}

// CountReports returns the number of stored reports.
func (s *Store) CountReports(ctx context.Context) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM reports`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}

	return count, nil
}
