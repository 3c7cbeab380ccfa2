package quota

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCostsPublishedTable(t *testing.T) {
	costs := &Costs{}

	require.Equal(t, 100, costs.CostOf("search.list"))
	require.Equal(t, 1, costs.CostOf("subscriptions.list"))
	require.Equal(t, 1, costs.CostOf("playlistItems.list"))
	require.Equal(t, 1, costs.CostOf("channels.list"))
}

func TestCostsMostSpecificMatch(t *testing.T) {
	costs := &Costs{Table: map[string]int{
		"playlist":      3,
		"playlistItems": 1,
	}}

	// The items endpoint contains the collection name; the longer key wins.
	require.Equal(t, 1, costs.CostOf("playlistItems.list"))
	require.Equal(t, 3, costs.CostOf("playlist.list"))
}

func TestCostsContainedIdentifier(t *testing.T) {
	costs := &Costs{}

	require.Equal(t, 100, costs.CostOf("youtube.search.list"))
	require.Equal(t, 1, costs.CostOf("youtube.playlistItems.list"))
}

func TestCostsUnknownDefault(t *testing.T) {
	costs := &Costs{}

	require.Equal(t, DefaultCost, costs.CostOf("captions.download"))
	require.Equal(t, DefaultCost, costs.CostOf(""))
	require.NotZero(t, costs.CostOf("captions.download"))
}

func TestCostsApplyOverrides(t *testing.T) {
	costs := &Costs{}
	costs.ApplyOverrides(map[string]int{
		"search.list":  50,
		"extra.lookup": 7,
		"":             9,
		"bogus":        -4,
	})

	require.Equal(t, 50, costs.CostOf("search.list"))
	require.Equal(t, 7, costs.CostOf("extra.lookup"))
	require.Equal(t, 1, costs.CostOf("subscriptions.list"))

	// The published table itself stays untouched.
	require.Equal(t, 100, DefaultCosts["search.list"])
}
