package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tubelens/tubelens/internal/core/quota"
)

func TestThrottleConfigResolve(t *testing.T) {
	resolved, err := ThrottleConfig{}.Resolve()
	require.NoError(t, err)
	require.Equal(t, quota.DefaultThrottleConfig, resolved)

	resolved, err = ThrottleConfig{Preset: "gentle"}.Resolve()
	require.NoError(t, err)
	require.Equal(t, 15, resolved.Threshold)
	require.Equal(t, 75, resolved.MaxQuotaPerMinute)
	require.Equal(t, 2*time.Second, resolved.MaxWait)

	// Explicit fields override the preset they start from.
	resolved, err = ThrottleConfig{Preset: "gentle", Threshold: 20, MaxWait: 500 * time.Millisecond}.Resolve()
	require.NoError(t, err)
	require.Equal(t, 20, resolved.Threshold)
	require.Equal(t, 75, resolved.MaxQuotaPerMinute)
	require.Equal(t, 500*time.Millisecond, resolved.MaxWait)

	_, err = ThrottleConfig{Preset: "reckless"}.Resolve()
	require.Error(t, err)
	require.Contains(t, err.Error(), "reckless")
}

func TestCostsConfigResolve(t *testing.T) {
	costs, err := CostsConfig{}.Resolve()
	require.NoError(t, err)
	require.Equal(t, 100, costs.CostOf("search.list"))
	require.Equal(t, 1, costs.CostOf("subscriptions.list"))

	dir := t.TempDir()
	path := filepath.Join(dir, "costs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search.list: 120\nreports.query: 5\n"), 0o600))

	costs, err = CostsConfig{
		File:      path,
		Overrides: map[string]int{"videos.list": 3},
	}.Resolve()
	require.NoError(t, err)

	// File overrides the published table, inline overrides win over both.
	require.Equal(t, 120, costs.CostOf("search.list"))
	require.Equal(t, 5, costs.CostOf("reports.query"))
	require.Equal(t, 3, costs.CostOf("videos.list"))
	require.Equal(t, 1, costs.CostOf("playlists.list"))
}

func TestCostsConfigResolveErrors(t *testing.T) {
	_, err := CostsConfig{File: filepath.Join(t.TempDir(), "missing.yaml")}.Resolve()
	require.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("search.list: [not, a, number]\n"), 0o600))
	_, err = CostsConfig{File: bad}.Resolve()
	require.Error(t, err)
}
