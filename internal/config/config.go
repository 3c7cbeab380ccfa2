package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tubelens/tubelens/internal/core/quota"
)

// Config represents the complete application configuration
// following the Fulmen Forge Workhorse Standard three-layer pattern:
// Layer 1: Crucible defaults (config/tubelens/v0/tubelens-defaults.yaml)
// Layer 2: User overrides (~/.config/tubelens/tubelens/config.yaml)
// Layer 3: Environment variables and runtime overrides
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	YouTube  YouTubeConfig  `mapstructure:"youtube"`
	Throttle ThrottleConfig `mapstructure:"throttle"`
	Costs    CostsConfig    `mapstructure:"costs"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
	Debug    DebugConfig    `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// YouTubeConfig contains the upstream Data API connection settings.
type YouTubeConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ThrottleConfig selects the outbound admission shape. Preset names a built-in
// shape; explicit fields override individual values of it.
type ThrottleConfig struct {
	Preset            string        `mapstructure:"preset"`
	Threshold         int           `mapstructure:"threshold"`
	MaxQuotaPerMinute int           `mapstructure:"max_quota_per_minute"`
	MaxWait           time.Duration `mapstructure:"max_wait"`
}

// Resolve produces the effective throttle configuration. Unset fields keep the
// preset's values; zero means unset here, so a preset is the only way to reach
// an always-throttling shape.
func (c ThrottleConfig) Resolve() (quota.ThrottleConfig, error) {
	base := quota.DefaultThrottleConfig
	if name := strings.TrimSpace(c.Preset); name != "" {
		preset, ok := quota.FindPreset(name)
		if !ok {
			return quota.ThrottleConfig{}, fmt.Errorf("unknown throttle preset %q", name)
		}
		base = preset.Config
	}

	if c.Threshold > 0 {
		base.Threshold = c.Threshold
	}
	if c.MaxQuotaPerMinute > 0 {
		base.MaxQuotaPerMinute = c.MaxQuotaPerMinute
	}
	if c.MaxWait > 0 {
		base.MaxWait = c.MaxWait
	}
	return base, nil
}

// CostsConfig points at per-endpoint cost overrides for the quota planner.
type CostsConfig struct {
	File      string         `mapstructure:"file"`
	Overrides map[string]int `mapstructure:"overrides"`
}

// LoggingConfig contains logging configuration
// Supports progressive logging profiles per Fulmen Forge Workhorse Standard:
// - SIMPLE: Console output only, minimal configuration (CLI tools)
// - STRUCTURED: Structured sinks, correlation IDs (API services)
// - ENTERPRISE: Multiple sinks, middleware, throttling, policy enforcement (production)
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level
	// Valid values: SIMPLE, STRUCTURED, ENTERPRISE
	// See: gofulmen/docs/crucible-go/standards/observability/logging.md
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	// Enabled controls whether metrics are exposed
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated metrics endpoint port (Prometheus format)
	// Metrics are also available at the main HTTP port in JSON format
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	// Enabled controls whether health endpoints are exposed
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration
type DebugConfig struct {
	// Enabled controls whether debug mode is active
	Enabled bool `mapstructure:"enabled"`

	// PprofEnabled controls whether pprof endpoints are exposed
	// WARNING: Only enable in development/staging environments
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
