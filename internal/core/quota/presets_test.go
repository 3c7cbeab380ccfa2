package quota

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindPreset(t *testing.T) {
	preset, ok := FindPreset("default")
	require.True(t, ok)
	require.Equal(t, DefaultThrottleConfig, preset.Config)

	preset, ok = FindPreset("  Gentle ")
	require.True(t, ok)
	require.Equal(t, 15, preset.Config.Threshold)

	_, ok = FindPreset("")
	require.False(t, ok)
	_, ok = FindPreset("reckless")
	require.False(t, ok)
}

func TestBuiltInPresetsKeepFullReserve(t *testing.T) {
	for _, preset := range BuiltInPresets {
		require.Empty(t, preset.Config.Warnings(), "preset %q", preset.Name)
	}
}

func TestFindPresetReturnsCopy(t *testing.T) {
	preset, ok := FindPreset("default")
	require.True(t, ok)

	preset.Config.Threshold = 1
	again, ok := FindPreset("default")
	require.True(t, ok)
	require.Equal(t, DefaultThrottleConfig.Threshold, again.Config.Threshold)
}
