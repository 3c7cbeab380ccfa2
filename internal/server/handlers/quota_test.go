package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tubelens/tubelens/internal/core"
)

func TestQuotaHandlerWithoutProviderReturns503(t *testing.T) {
	SetQuotaStatusProvider(nil)
	t.Cleanup(func() { SetQuotaStatusProvider(nil) })

	req := httptest.NewRequest(http.MethodGet, "/quota", nil)
	rec := httptest.NewRecorder()

	QuotaHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestQuotaHandlerReportsWindowStatus(t *testing.T) {
	SetQuotaStatusProvider(func() core.QuotaStatus {
		return core.QuotaStatus{
			WindowUsed:        42,
			Threshold:         30,
			MaxQuotaPerMinute: 90,
			Reserve:           60,
			Utilization:       0.2,
			NextWaitMs:        1200,
			AsOf:              time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	})
	t.Cleanup(func() { SetQuotaStatusProvider(nil) })

	req := httptest.NewRequest(http.MethodGet, "/quota", nil)
	rec := httptest.NewRecorder()

	QuotaHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}

	var status core.QuotaStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if status.WindowUsed != 42 {
		t.Fatalf("expected window_used 42, got %d", status.WindowUsed)
	}
	if status.Reserve != 60 {
		t.Fatalf("expected reserve 60, got %d", status.Reserve)
	}
	if status.NextWaitMs != 1200 {
		t.Fatalf("expected next_wait_ms 1200, got %d", status.NextWaitMs)
	}
}
