package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/tubelens/tubelens/internal/config"
	"github.com/tubelens/tubelens/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display comprehensive environment, configuration, and version information.",
	Run: func(cmd *cobra.Command, args []string) {
		version := crucible.GetVersion()

		observability.CLILogger.Info("=== TubeLens Environment Information ===")
		observability.CLILogger.Info("")

		// Application Info
		identity := GetAppIdentity()
		observability.CLILogger.Info("Application:")
		observability.CLILogger.Info("  Name:       " + identity.BinaryName)
		observability.CLILogger.Info("  Version:    " + versionInfo.Version)
		observability.CLILogger.Info("  Commit:     " + versionInfo.Commit)
		observability.CLILogger.Info("  Built:      " + versionInfo.BuildDate)
		observability.CLILogger.Info("")

		// SSOT Info
		observability.CLILogger.Info("SSOT:")
		observability.CLILogger.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		observability.CLILogger.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		observability.CLILogger.Info("")

		// Runtime Info
		observability.CLILogger.Info("Runtime:")
		observability.CLILogger.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		observability.CLILogger.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		observability.CLILogger.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		observability.CLILogger.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		observability.CLILogger.Info("")

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			observability.CLILogger.Warn("Config load failed", zap.Error(err))
			return
		}

		// Configuration
		observability.CLILogger.Info("Configuration:")
		observability.CLILogger.Info("  Server Host:    "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		observability.CLILogger.Info(fmt.Sprintf("  Server Port:    %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		observability.CLILogger.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		observability.CLILogger.Info("  Log Profile:    "+cfg.Logging.Profile, zap.String("log_profile", cfg.Logging.Profile))
		observability.CLILogger.Info("  DB Driver:      "+cfg.Store.Driver, zap.String("db_driver", cfg.Store.Driver))
		if strings.TrimSpace(cfg.Store.URL) != "" {
			observability.CLILogger.Info("  DB URL:         "+cfg.Store.URL, zap.String("db_url", cfg.Store.URL))
		} else {
			observability.CLILogger.Info("  DB Path:        "+cfg.Store.Path, zap.String("db_path", cfg.Store.Path))
		}
		observability.CLILogger.Info(fmt.Sprintf("  Metrics Port:   %d", cfg.Metrics.Port), zap.Int("metrics_port", cfg.Metrics.Port))
		observability.CLILogger.Info("  Config File:    "+config.DefaultConfigPath(), zap.String("config_file", config.DefaultConfigPath()))
		observability.CLILogger.Info("")

		// Upstream API Configuration
		observability.CLILogger.Info("YouTube:")
		observability.CLILogger.Info("  Base URL:       " + cfg.YouTube.BaseURL)
		observability.CLILogger.Info("  Timeout:        " + cfg.YouTube.Timeout.String())
		if strings.TrimSpace(cfg.YouTube.Token) != "" {
			observability.CLILogger.Info("  Token:          (set)")
		} else {
			observability.CLILogger.Info("  Token:          (not set)")
		}
		observability.CLILogger.Info("")

		// Throttle Configuration
		observability.CLILogger.Info("Throttle:")
		throttleCfg, throttleErr := cfg.Throttle.Resolve()
		if throttleErr != nil {
			observability.CLILogger.Warn("  Invalid throttle config", zap.Error(throttleErr))
		} else {
			if preset := strings.TrimSpace(cfg.Throttle.Preset); preset != "" {
				observability.CLILogger.Info("  Preset:         " + preset)
			}
			observability.CLILogger.Info(fmt.Sprintf("  Threshold:      %d points", throttleCfg.Threshold))
			observability.CLILogger.Info(fmt.Sprintf("  Per Minute:     %d points", throttleCfg.MaxQuotaPerMinute))
			observability.CLILogger.Info(fmt.Sprintf("  Reserve:        %d points", throttleCfg.Reserve()))
			observability.CLILogger.Info("  Max Wait:       " + throttleCfg.MaxWait.String())
			for _, warning := range throttleCfg.Warnings() {
				observability.CLILogger.Warn("  ⚠️  " + warning)
			}
		}
		observability.CLILogger.Info("")

		// Cost Table Configuration
		observability.CLILogger.Info("Quota Costs:")
		if file := strings.TrimSpace(cfg.Costs.File); file != "" {
			observability.CLILogger.Info("  Override File:  " + file)
		} else {
			observability.CLILogger.Info("  Override File:  (none)")
		}
		observability.CLILogger.Info(fmt.Sprintf("  Inline Overrides: %d", len(cfg.Costs.Overrides)))
		observability.CLILogger.Info("")

		observability.CLILogger.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
