package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens/internal/core/store"
	"github.com/tubelens/tubelens/internal/output"
)

var (
	quotaLogOutput   string
	quotaLogOut      string
	quotaLogOutDir   string
	quotaLogAll      bool
	quotaLogEndpoint string
	quotaLogPrefix   string
	quotaLogLimit    int
)

var quotaLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List audited admission decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(quotaLogOutput)
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

		query := store.QuotaAuditQuery{
			All:      quotaLogAll,
			Endpoint: strings.TrimSpace(quotaLogEndpoint),
			Prefix:   strings.TrimSpace(quotaLogPrefix),
		}
		if !query.All && query.Endpoint == "" && query.Prefix == "" {
			query.All = true
		}

		entries, err := db.ListQuotaAudit(cmd.Context(), query, quotaLogLimit)
		if err != nil {
			return err
		}

		sink, err := quotaSink(quotaLogOut, quotaLogOutDir, "quota.log", format)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		if format == output.FormatJSON {
			payload, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(sink.writer, string(payload))
			return err
		}

		lines := []string{"Quota Audit", ""}
		if len(entries) == 0 {
			lines = append(lines, "(no audited admission decisions)")
			_, _ = fmt.Fprint(sink.writer, ascii.DrawBox(strings.Join(lines, "\n"), 0))
			return nil
		}

		for _, entry := range entries {
			lines = append(lines, fmt.Sprintf("%s  %s cost=%d wait=%dms window=%d",
				entry.DecidedAt.UTC().Format(time.RFC3339),
				entry.Endpoint, entry.Cost, entry.WaitMs, entry.WindowAfter))
		}

		_, _ = fmt.Fprint(sink.writer, ascii.DrawBox(strings.Join(lines, "\n"), 0))
		return nil
	},
}

func init() {
	quotaLogCmd.Flags().StringVar(&quotaLogOutput, "output-format", string(output.FormatTable), "Output format: table|json")
	quotaLogCmd.Flags().StringVar(&quotaLogOut, "out", "", "Write output to a file (default stdout)")
	quotaLogCmd.Flags().StringVar(&quotaLogOutDir, "out-dir", "", "Write output to a directory")
	quotaLogCmd.Flags().BoolVar(&quotaLogAll, "all", false, "List every endpoint")
	quotaLogCmd.Flags().StringVar(&quotaLogEndpoint, "endpoint", "", "List a single endpoint (exact match)")
	quotaLogCmd.Flags().StringVar(&quotaLogPrefix, "prefix", "", "List endpoints with matching prefix")
	quotaLogCmd.Flags().IntVar(&quotaLogLimit, "limit", 50, "Maximum entries to list (0 for all)")
}
