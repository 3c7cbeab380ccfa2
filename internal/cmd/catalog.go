package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tubelens/tubelens/internal/config"
	"github.com/tubelens/tubelens/internal/core/engine"
	"github.com/tubelens/tubelens/internal/core/quota"
	"github.com/tubelens/tubelens/internal/core/store"
	"github.com/tubelens/tubelens/internal/core/youtube"
	"github.com/tubelens/tubelens/internal/metrics"
	"github.com/tubelens/tubelens/internal/observability"
)

// catalogSession bundles the wired client stack for one CLI invocation: the
// throttled catalog client, the collector driving it, and (optionally) the
// local store receiving snapshots and the consumption audit.
type catalogSession struct {
	Collector *engine.Collector
	Throttle  *quota.Throttle
	Store     *store.Store
}

func (s *catalogSession) Close() {
	if s != nil && s.Store != nil {
		_ = s.Store.Close()
	}
}

// openCatalog builds a collector from the loaded configuration. Admission
// state is process-local and fresh per invocation; the persisted audit trail
// only observes it. When snapshot is true the local store is opened and
// finished reports plus admission decisions are persisted to it.
func openCatalog(ctx context.Context, snapshot bool) (*catalogSession, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	throttleCfg, err := cfg.Throttle.Resolve()
	if err != nil {
		return nil, err
	}
	for _, warning := range throttleCfg.Warnings() {
		observability.CLILogger.Warn(warning)
	}

	costs, err := cfg.Costs.Resolve()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.YouTube.Token) == "" {
		observability.CLILogger.Warn("No API token configured; upstream calls will be rejected (set youtube.token or the TUBELENS_YOUTUBE_TOKEN env override)")
	}

	var db *store.Store
	if snapshot {
		db, err = openStore(ctx)
		if err != nil {
			return nil, err
		}
	}

	timeout := cfg.YouTube.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	throttle := quota.NewThrottle(throttleCfg, &quota.Tracker{})
	client := &youtube.Client{
		HTTP:        &http.Client{Timeout: timeout},
		BaseURL:     cfg.YouTube.BaseURL,
		Token:       cfg.YouTube.Token,
		Throttle:    throttle,
		Costs:       costs,
		ToolVersion: versionInfo.Version,
		OnCall: func(endpoint string, admission quota.Admission) {
			observability.CLILogger.Debug("Admitted upstream call",
				zap.String("endpoint", endpoint),
				zap.Int("cost", admission.Cost),
				zap.Duration("wait", admission.Wait),
				zap.Int("window_after", admission.WindowAfter))
			metrics.RecordQuotaAdmission(endpoint, admission.Cost, admission.Wait)
			if db != nil {
				if err := db.RecordQuotaAudit(ctx, endpoint, admission); err != nil {
					observability.CLILogger.Warn("Failed to record quota audit", zap.Error(err))
				}
			}
		},
	}

	collector := &engine.Collector{
		Client:      client,
		Costs:       costs,
		Throttle:    throttle,
		ToolVersion: versionInfo.Version,
		OnProgress: func(fetched, total int) {
			observability.CLILogger.Debug("Fetch progress",
				zap.Int("fetched", fetched),
				zap.Int("total", total))
		},
	}
	if db != nil {
		collector.Store = db
	}

	return &catalogSession{Collector: collector, Throttle: throttle, Store: db}, nil
}
