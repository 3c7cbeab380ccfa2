package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tubelens/tubelens/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders fetch reports.
type Formatter interface {
	FormatReport(report *core.FetchReport) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// FormatReportList renders multiple fetch reports using the requested format.
func FormatReportList(format Format, reports []*core.FetchReport) (string, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	formatter := NewFormatter(format)
	rendered := make([]string, 0, len(reports))
	for _, report := range reports {
		if report == nil {
			continue
		}
		value, err := formatter.FormatReport(report)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		rendered = append(rendered, value)
	}

	return strings.Join(rendered, "\n\n"), nil
}

// reportTitle names a report for table and markdown headers.
func reportTitle(report *core.FetchReport) string {
	title := string(report.Resource)
	if target := strings.TrimSpace(report.Target); target != "" {
		title += " " + target
	}
	return title
}

// reportSummary condenses a report's footprint into one line.
func reportSummary(report *core.FetchReport) string {
	summary := fmt.Sprintf("%d/%d items", report.Count, report.Total)
	if report.Pages > 0 {
		summary += fmt.Sprintf(", %d pages", report.Pages)
	}
	if report.QuotaSpent > 0 {
		summary += fmt.Sprintf(", %d quota points", report.QuotaSpent)
	}
	return summary
}

// reportRows flattens the populated resource slice into header + rows.
func reportRows(report *core.FetchReport) ([]string, [][]string) {
	switch {
	case report.Subscriptions != nil:
		header := []string{"Channel", "Channel ID", "Subscribed", "Videos"}
		rows := make([][]string, 0, len(report.Subscriptions))
		for _, sub := range report.Subscriptions {
			rows = append(rows, []string{
				sub.Title,
				sub.ChannelID,
				formatDate(sub.SubscribedAt),
				fmt.Sprintf("%d", sub.ItemCount),
			})
		}
		return header, rows
	case report.Playlists != nil:
		header := []string{"Playlist", "Playlist ID", "Items", "Published"}
		rows := make([][]string, 0, len(report.Playlists))
		for _, playlist := range report.Playlists {
			rows = append(rows, []string{
				playlist.Title,
				playlist.ID,
				fmt.Sprintf("%d", playlist.ItemCount),
				formatDate(playlist.PublishedAt),
			})
		}
		return header, rows
	case report.PlaylistItems != nil:
		header := []string{"#", "Video", "Video ID", "Channel", "Published"}
		rows := make([][]string, 0, len(report.PlaylistItems))
		for _, item := range report.PlaylistItems {
			rows = append(rows, []string{
				fmt.Sprintf("%d", item.Position+1),
				item.Title,
				item.VideoID,
				item.OwnerChannel,
				formatDate(item.PublishedAt),
			})
		}
		return header, rows
	case report.Channels != nil:
		header := []string{"Channel", "Handle", "Subscribers", "Videos", "Views"}
		rows := make([][]string, 0, len(report.Channels))
		for _, channel := range report.Channels {
			rows = append(rows, []string{
				channel.Title,
				channel.Handle,
				fmt.Sprintf("%d", channel.Subscribers),
				fmt.Sprintf("%d", channel.Videos),
				fmt.Sprintf("%d", channel.Views),
			})
		}
		return header, rows
	case report.Matches != nil:
		header := []string{"Kind", "Title", "ID", "Channel", "Published"}
		rows := make([][]string, 0, len(report.Matches))
		for _, match := range report.Matches {
			rows = append(rows, []string{
				string(match.Kind),
				match.Title,
				match.ID,
				match.ChannelTitle,
				formatDate(match.PublishedAt),
			})
		}
		return header, rows
	default:
		return []string{"Resource", "Items"}, nil
	}
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}
