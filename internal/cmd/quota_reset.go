package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens/internal/core/store"
	"github.com/tubelens/tubelens/internal/output"
)

var (
	quotaResetAll      bool
	quotaResetEndpoint string
	quotaResetPrefix   string
	quotaResetYes      bool
	quotaResetDryRun   bool
	quotaResetOutput   string
	quotaResetOut      string
	quotaResetOutDir   string
)

var quotaResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete audited admission decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(quotaResetOutput)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		query := store.QuotaAuditQuery{
			All:      quotaResetAll,
			Endpoint: strings.TrimSpace(quotaResetEndpoint),
			Prefix:   strings.TrimSpace(quotaResetPrefix),
		}
		if err := query.Validate(); err != nil {
			return err
		}

		if query.All && !quotaResetYes && !quotaResetDryRun {
			return errors.New("--all requires --yes (or use --dry-run)")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		matched, err := db.CountQuotaAudit(cmd.Context(), query)
		if err != nil {
			return err
		}

		sink, err := quotaSink(quotaResetOut, quotaResetOutDir, "quota.reset", format)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		if quotaResetDryRun {
			return writeQuotaResetResult(format, sink.writer, matched, 0, true)
		}

		deleted, err := db.ResetQuotaAudit(cmd.Context(), query)
		if err != nil {
			return err
		}

		return writeQuotaResetResult(format, sink.writer, matched, deleted, false)
	},
}

func writeQuotaResetResult(format output.Format, w io.Writer, matched int, deleted int64, dryRun bool) error {
	result := map[string]any{
		"matched": matched,
		"deleted": deleted,
		"dry_run": dryRun,
	}

	if format == output.FormatJSON {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(payload))
		return err
	}

	if dryRun {
		_, err := fmt.Fprintf(w, "Would delete %d audit entr(ies)\n", matched)
		return err
	}
	_, err := fmt.Fprintf(w, "Deleted %d/%d audit entr(ies)\n", deleted, matched)
	return err
}

func init() {
	quotaResetCmd.Flags().BoolVar(&quotaResetAll, "all", false, "Reset every endpoint")
	quotaResetCmd.Flags().StringVar(&quotaResetEndpoint, "endpoint", "", "Reset a single endpoint (exact match)")
	quotaResetCmd.Flags().StringVar(&quotaResetPrefix, "prefix", "", "Reset endpoints with matching prefix")
	quotaResetCmd.Flags().BoolVar(&quotaResetYes, "yes", false, "Confirm destructive reset")
	quotaResetCmd.Flags().BoolVar(&quotaResetDryRun, "dry-run", false, "Show what would be deleted")
	quotaResetCmd.Flags().StringVar(&quotaResetOutput, "output-format", string(output.FormatTable), "Output format: table|json")
	quotaResetCmd.Flags().StringVar(&quotaResetOut, "out", "", "Write output to a file (default stdout)")
	quotaResetCmd.Flags().StringVar(&quotaResetOutDir, "out-dir", "", "Write output to a directory")
}
