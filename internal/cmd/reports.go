package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens/internal/core"
	"github.com/tubelens/tubelens/internal/output"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse snapshotted fetch reports",
}

var (
	reportsListOutput   string
	reportsListResource string
	reportsListLimit    int
)

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored fetch reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(reportsListOutput)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		summaries, err := db.ListReports(cmd.Context(), core.ResourceKind(strings.TrimSpace(reportsListResource)), reportsListLimit)
		if err != nil {
			return err
		}

		if format == output.FormatJSON {
			payload, err := json.MarshalIndent(summaries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		}

		lines := []string{"Fetch Reports", ""}
		if len(summaries) == 0 {
			lines = append(lines, "(no stored reports; run a fetch with --snapshot)")
			fmt.Print(ascii.DrawBox(strings.Join(lines, "\n"), 0))
			return nil
		}

		for _, summary := range summaries {
			target := summary.Target
			if target == "" {
				target = "-"
			}
			lines = append(lines, fmt.Sprintf("%s  %s %s items=%d/%d quota=%d",
				summary.ReportID, summary.Resource, target, summary.Count, summary.Total, summary.QuotaSpent))
		}

		fmt.Print(ascii.DrawBox(strings.Join(lines, "\n"), 0))
		return nil
	},
}

var reportsShowOutput string

var reportsShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show one stored fetch report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(reportsShowOutput)
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		report, err := db.GetReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if report == nil {
			return fmt.Errorf("report not found: %s", args[0])
		}

		rendered, err := output.NewFormatter(format).FormatReport(report)
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimRight(rendered, "\n"))
		return nil
	},
}

func init() {
	reportsListCmd.Flags().StringVar(&reportsListOutput, "output-format", string(output.FormatTable), "Output format: table|json")
	reportsListCmd.Flags().StringVar(&reportsListResource, "resource", "", "Filter by resource kind (subscriptions|playlists|playlist-items|channels|search)")
	reportsListCmd.Flags().IntVar(&reportsListLimit, "limit", 20, "Maximum reports to list (0 for all)")

	reportsShowCmd.Flags().StringVar(&reportsShowOutput, "output-format", string(output.FormatTable), "Output format: table|json|markdown")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}
