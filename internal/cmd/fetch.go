package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tubelens/tubelens/internal/core"
	"github.com/tubelens/tubelens/internal/core/engine"
	"github.com/tubelens/tubelens/internal/core/youtube"
	"github.com/tubelens/tubelens/internal/metrics"
	"github.com/tubelens/tubelens/internal/observability"
	"github.com/tubelens/tubelens/internal/output"
)

var (
	fetchSnapshot   bool
	fetchChannelID  string
	fetchPlaylistID string
	fetchChannelIDs []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch complete channel catalog resources",
	Long: `Fetch a catalog resource to exhaustion through the quota-aware client.

Every page goes through the admission throttle; a fetch either returns the
complete resource or fails without partial results.`,
}

var fetchSubscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Fetch the authenticated account's subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, core.ResourceSubscriptions, "subscriptions",
			func(ctx context.Context, collector *engine.Collector) (*core.FetchReport, error) {
				return collector.FetchSubscriptions(ctx)
			})
	},
}

var fetchPlaylistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "Fetch every playlist owned by a channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, core.ResourcePlaylists, sanitizeFilename("playlists-"+fetchChannelID),
			func(ctx context.Context, collector *engine.Collector) (*core.FetchReport, error) {
				return collector.FetchPlaylists(ctx, fetchChannelID)
			})
	},
}

var fetchItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Fetch every item of a playlist, in playlist order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, core.ResourcePlaylistItems, sanitizeFilename("items-"+fetchPlaylistID),
			func(ctx context.Context, collector *engine.Collector) (*core.FetchReport, error) {
				return collector.FetchPlaylistItems(ctx, fetchPlaylistID)
			})
	},
}

var fetchChannelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Fetch channel details for a batch of channel ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, core.ResourceChannels, "channels",
			func(ctx context.Context, collector *engine.Collector) (*core.FetchReport, error) {
				return collector.FetchChannels(ctx, fetchChannelIDs)
			})
	},
}

// runFetch drives one collector operation and renders its report. The
// filename stem names output files under --out-dir.
func runFetch(cmd *cobra.Command, resource core.ResourceKind, stem string,
	run func(ctx context.Context, collector *engine.Collector) (*core.FetchReport, error)) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	outPath, outDir, err := resolveOutputTargets(cmd)
	if err != nil {
		return err
	}

	session, err := openCatalog(cmd.Context(), fetchSnapshot)
	if err != nil {
		return err
	}
	defer session.Close()

	report, err := run(cmd.Context(), session.Collector)
	metrics.RecordFetch(string(resource), err == nil)
	if err != nil {
		if youtube.IsQuotaExceeded(err) {
			observability.CLILogger.Warn("Daily quota exhausted; the provider rejects further calls until its reset",
				zap.String("resource", string(resource)))
		}
		return err
	}

	ext := outputExtension(format)
	if outDir != "" {
		outDir, err = ensureOutDir(outDir)
		if err != nil {
			return err
		}
		outPath = filepath.Join(outDir, fmt.Sprintf("%s.%s", stem, ext))
	}

	sink, err := openSink(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = sink.close() }()

	rendered, err := output.NewFormatter(format).FormatReport(report)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(sink.writer, strings.TrimRight(rendered, "\n")); err != nil {
		return err
	}

	if fetchSnapshot {
		observability.CLILogger.Info("Report saved",
			zap.String("report_id", report.ReportID),
			zap.String("resource", string(report.Resource)))
	}
	return nil
}

func addFetchOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-format", string(output.FormatTable), "Output format: table|json|markdown")
	cmd.Flags().String("out", "", "Write output to a file (default stdout)")
	cmd.Flags().String("out-dir", "", "Write output to a directory")
	cmd.Flags().BoolVar(&fetchSnapshot, "snapshot", false, "Persist the finished report and admission audit to the local store")
}

func init() {
	fetchPlaylistsCmd.Flags().StringVar(&fetchChannelID, "channel", "", "Channel id owning the playlists (required)")
	_ = fetchPlaylistsCmd.MarkFlagRequired("channel")

	fetchItemsCmd.Flags().StringVar(&fetchPlaylistID, "playlist", "", "Playlist id to enumerate (required)")
	_ = fetchItemsCmd.MarkFlagRequired("playlist")

	fetchChannelsCmd.Flags().StringSliceVar(&fetchChannelIDs, "id", nil, "Channel ids, comma separated or repeated (required)")
	_ = fetchChannelsCmd.MarkFlagRequired("id")

	for _, sub := range []*cobra.Command{fetchSubscriptionsCmd, fetchPlaylistsCmd, fetchItemsCmd, fetchChannelsCmd} {
		addFetchOutputFlags(sub)
		fetchCmd.AddCommand(sub)
	}

	rootCmd.AddCommand(fetchCmd)
}
