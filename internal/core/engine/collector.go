package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tubelens/tubelens/internal/core"
	"github.com/tubelens/tubelens/internal/core/quota"
	"github.com/tubelens/tubelens/internal/core/youtube"
)

// Fetcher is the slice of the catalog client the collector drives.
type Fetcher interface {
	FetchAllSubscriptions(ctx context.Context, onProgress youtube.ProgressFunc) ([]core.Subscription, error)
	FetchAllPlaylists(ctx context.Context, channelID string, onProgress youtube.ProgressFunc) ([]core.Playlist, error)
	FetchAllPlaylistItems(ctx context.Context, playlistID string, onProgress youtube.ProgressFunc) ([]core.PlaylistItem, error)
	FetchChannels(ctx context.Context, ids []string, onProgress youtube.ProgressFunc) ([]core.Channel, error)
	Search(ctx context.Context, query string, limit int, onProgress youtube.ProgressFunc) ([]core.SearchResult, error)
}

// ReportStore persists finished fetch reports.
type ReportStore interface {
	SaveReport(ctx context.Context, report *core.FetchReport) error
}

// Collector runs complete catalog fetches and assembles their reports. A fetch
// either returns every item of the resource or fails; there are no partial
// reports.
type Collector struct {
	Client      Fetcher
	Store       ReportStore
	Costs       *quota.Costs
	Throttle    *quota.Throttle
	ToolVersion string

	// OnProgress receives per-page progress for interactive surfaces.
	OnProgress youtube.ProgressFunc
	// NewID overrides report id generation for tests.
	NewID func() string
	Clock func() time.Time
}

// FetchSubscriptions retrieves the authenticated account's full subscription
// list.
func (c *Collector) FetchSubscriptions(ctx context.Context) (*core.FetchReport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	report, progress := c.beginReport(core.ResourceSubscriptions, "")
	subs, err := c.Client.FetchAllSubscriptions(ctx, progress.observe)
	if err != nil {
		return nil, err
	}

	report.Subscriptions = subs
	return c.finishReport(ctx, report, progress, youtube.EndpointSubscriptions, len(subs))
}

// FetchPlaylists retrieves every playlist owned by the given channel.
func (c *Collector) FetchPlaylists(ctx context.Context, channelID string) (*core.FetchReport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	report, progress := c.beginReport(core.ResourcePlaylists, strings.TrimSpace(channelID))
	playlists, err := c.Client.FetchAllPlaylists(ctx, channelID, progress.observe)
	if err != nil {
		return nil, err
	}

	report.Playlists = playlists
	return c.finishReport(ctx, report, progress, youtube.EndpointPlaylists, len(playlists))
}

// FetchPlaylistItems retrieves every entry of the given playlist in playlist
// order.
func (c *Collector) FetchPlaylistItems(ctx context.Context, playlistID string) (*core.FetchReport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	report, progress := c.beginReport(core.ResourcePlaylistItems, strings.TrimSpace(playlistID))
	items, err := c.Client.FetchAllPlaylistItems(ctx, playlistID, progress.observe)
	if err != nil {
		return nil, err
	}

	report.PlaylistItems = items
	return c.finishReport(ctx, report, progress, youtube.EndpointPlaylistItems, len(items))
}

// FetchChannels retrieves profile and statistics for the given channel ids.
func (c *Collector) FetchChannels(ctx context.Context, ids []string) (*core.FetchReport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	report, progress := c.beginReport(core.ResourceChannels, strings.Join(ids, ","))
	channels, err := c.Client.FetchChannels(ctx, ids, progress.observe)
	if err != nil {
		return nil, err
	}

	report.Channels = channels
	return c.finishReport(ctx, report, progress, youtube.EndpointChannels, len(channels))
}

// Search retrieves up to limit catalog matches for the query. Search pages are
// far more expensive than list pages, so the limit bounds spend, not just
// output size.
func (c *Collector) Search(ctx context.Context, query string, limit int) (*core.FetchReport, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	report, progress := c.beginReport(core.ResourceSearch, strings.TrimSpace(query))
	matches, err := c.Client.Search(ctx, query, limit, progress.observe)
	if err != nil {
		return nil, err
	}

	report.Matches = matches
	return c.finishReport(ctx, report, progress, youtube.EndpointSearch, len(matches))
}

// QuotaStatus reports the current position inside the sliding admission
// window.
func (c *Collector) QuotaStatus() core.QuotaStatus {
	status := core.QuotaStatus{AsOf: c.now()}
	if c == nil || c.Throttle == nil {
		return status
	}

	cfg := c.Throttle.Config
	used := c.Throttle.Tracker.CountWindow()

	status.WindowUsed = used
	status.Threshold = cfg.Threshold
	status.MaxQuotaPerMinute = cfg.MaxQuotaPerMinute
	status.Reserve = cfg.Reserve()
	status.Utilization = cfg.Utilization(used)
	status.NextWaitMs = c.Throttle.ProjectWait(quota.DefaultCost).Milliseconds()
	return status
}

func (c *Collector) ready() error {
	if c == nil || c.Client == nil {
		return errors.New("collector: no catalog client configured")
	}
	return nil
}

func (c *Collector) beginReport(resource core.ResourceKind, target string) (*core.FetchReport, *progressRecorder) {
	report := &core.FetchReport{
		ReportID:    c.newID(),
		Resource:    resource,
		Target:      target,
		StartedAt:   c.now(),
		ToolVersion: c.ToolVersion,
	}
	return report, &progressRecorder{forward: c.OnProgress}
}

func (c *Collector) finishReport(ctx context.Context, report *core.FetchReport, progress *progressRecorder, endpoint string, count int) (*core.FetchReport, error) {
	report.Count = count
	report.Total = progress.total
	if report.Total < count {
		report.Total = count
	}
	report.Pages = progress.pages
	report.QuotaSpent = progress.pages * c.costs().CostOf(endpoint)
	report.FinishedAt = c.now()

	if c.Store != nil {
		if err := c.Store.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}
	return report, nil
}

func (c *Collector) costs() *quota.Costs {
	if c != nil && c.Costs != nil {
		return c.Costs
	}
	return &quota.Costs{}
}

func (c *Collector) newID() string {
	if c != nil && c.NewID != nil {
		return c.NewID()
	}
	return uuid.New().String()
}

func (c *Collector) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}

// progressRecorder counts pages and remembers the provider-reported total
// while forwarding progress to the configured hook.
type progressRecorder struct {
	pages   int
	total   int
	forward youtube.ProgressFunc
}

func (p *progressRecorder) observe(fetched, total int) {
	p.pages++
	if total > p.total {
		p.total = total
	}
	if p.forward != nil {
		p.forward(fetched, total)
	}
}
