package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/tubelens/tubelens/internal/config"
	"github.com/tubelens/tubelens/internal/output"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Inspect the quota configuration and consumption audit",
}

var (
	quotaStatusOutput string
	quotaStatusOut    string
	quotaStatusOutDir string
)

// quotaStatusView is the CLI rendition of the quota position. The live
// admission window belongs to a running process; from the CLI the persisted
// audit trail stands in for it.
type quotaStatusView struct {
	Preset            string `json:"preset,omitempty"`
	Threshold         int    `json:"threshold"`
	MaxQuotaPerMinute int    `json:"max_quota_per_minute"`
	Reserve           int    `json:"reserve"`
	MaxWaitMs         int64  `json:"max_wait_ms"`

	Warnings []string `json:"warnings,omitempty"`

	AuditedLastMinute int `json:"audited_last_minute"`
	AuditedLastHour   int `json:"audited_last_hour"`
	AuditedLastDay    int `json:"audited_last_day"`
}

var quotaStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective throttle shape and recent audited spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(quotaStatusOutput)
		if err != nil {
			return err
		}
		if format != output.FormatJSON && format != output.FormatTable {
			return fmt.Errorf("unsupported output format: %s", format)
		}

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		throttleCfg, err := cfg.Throttle.Resolve()
		if err != nil {
			return err
		}

		view := quotaStatusView{
			Preset:            strings.TrimSpace(cfg.Throttle.Preset),
			Threshold:         throttleCfg.Threshold,
			MaxQuotaPerMinute: throttleCfg.MaxQuotaPerMinute,
			Reserve:           throttleCfg.Reserve(),
			MaxWaitMs:         throttleCfg.MaxWait.Milliseconds(),
			Warnings:          throttleCfg.Warnings(),
		}

		db, err := openStore(cmd.Context())
		if err == nil {
			defer db.Close() // nolint:errcheck // best-effort cleanup
			now := time.Now().UTC()
			if spend, err := db.SumQuotaAuditSince(cmd.Context(), now.Add(-time.Minute)); err == nil {
				view.AuditedLastMinute = spend
			}
			if spend, err := db.SumQuotaAuditSince(cmd.Context(), now.Add(-time.Hour)); err == nil {
				view.AuditedLastHour = spend
			}
			if spend, err := db.SumQuotaAuditSince(cmd.Context(), now.Add(-24*time.Hour)); err == nil {
				view.AuditedLastDay = spend
			}
		}

		sink, err := quotaSink(quotaStatusOut, quotaStatusOutDir, "quota.status", format)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		if format == output.FormatJSON {
			payload, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(sink.writer, string(payload))
			return err
		}

		lines := []string{"Quota Status", ""}
		if view.Preset != "" {
			lines = append(lines, fmt.Sprintf("preset: %s", view.Preset))
		}
		lines = append(lines,
			fmt.Sprintf("threshold: %d points", view.Threshold),
			fmt.Sprintf("ceiling: %d points/min", view.MaxQuotaPerMinute),
			fmt.Sprintf("reserve: %d points", view.Reserve),
			fmt.Sprintf("max wait: %dms", view.MaxWaitMs),
			"",
			fmt.Sprintf("audited spend: %d (1m), %d (1h), %d (24h)",
				view.AuditedLastMinute, view.AuditedLastHour, view.AuditedLastDay),
		)
		for _, warning := range view.Warnings {
			lines = append(lines, "", "warning: "+warning)
		}

		_, _ = fmt.Fprint(sink.writer, ascii.DrawBox(strings.Join(lines, "\n"), 0))
		return nil
	},
}

func quotaSink(outPath, outDir, stem string, format output.Format) (*outputSink, error) {
	outPath = strings.TrimSpace(outPath)
	outDir = strings.TrimSpace(outDir)
	if outPath != "" && outDir != "" {
		return nil, fmt.Errorf("--out and --out-dir are mutually exclusive")
	}

	if outDir != "" {
		resolved, err := ensureOutDir(outDir)
		if err != nil {
			return nil, err
		}
		outPath = filepath.Join(resolved, fmt.Sprintf("%s.%s", stem, outputExtension(format)))
	}

	return openSink(outPath)
}

func init() {
	quotaStatusCmd.Flags().StringVar(&quotaStatusOutput, "output-format", string(output.FormatTable), "Output format: table|json")
	quotaStatusCmd.Flags().StringVar(&quotaStatusOut, "out", "", "Write output to a file (default stdout)")
	quotaStatusCmd.Flags().StringVar(&quotaStatusOutDir, "out-dir", "", "Write output to a directory")

	quotaCmd.AddCommand(quotaStatusCmd)
	quotaCmd.AddCommand(quotaLogCmd)
	quotaCmd.AddCommand(quotaResetCmd)
	rootCmd.AddCommand(quotaCmd)
}
