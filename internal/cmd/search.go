package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens/internal/core"
	"github.com/tubelens/tubelens/internal/core/engine"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Long: `Search videos, channels and playlists for a query.

Search pages are the provider's most expensive calls (100 points each), so
--limit bounds quota spend as well as output size.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		return runFetch(cmd, core.ResourceSearch, sanitizeFilename("search-"+query),
			func(ctx context.Context, collector *engine.Collector) (*core.FetchReport, error) {
				return collector.Search(ctx, query, searchLimit)
			})
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 25, "Maximum number of matches to fetch")
	addFetchOutputFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
