package quota

import (
	"strings"
)

// DefaultCost is charged for endpoints missing from the table. Never zero: an
// unrecognized call must still count against the window.
const DefaultCost = 1

// DefaultCosts mirrors the provider's published per-call point costs.
var DefaultCosts = map[string]int{
	"channels.list":      1,
	"playlistItems.list": 1,
	"playlists.list":     1,
	"search.list":        100,
	"subscriptions.list": 1,
	"videos.list":        1,
}

// Costs resolves endpoint identifiers to their point cost. The table is loaded
// once at startup and read-only afterwards.
type Costs struct {
	Table map[string]int
}

// CostOf returns the point cost for an endpoint identifier. Exact matches win;
// otherwise the longest table key contained in the identifier decides, so an
// items-of-a-collection endpoint never resolves to the collection's cost just
// because its name is a superstring. Unknown identifiers cost DefaultCost.
func (c *Costs) CostOf(endpoint string) int {
	table := c.table()

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return DefaultCost
	}

	if cost, ok := table[endpoint]; ok {
		return cost
	}

	best := ""
	for key := range table {
		if len(key) > len(best) && strings.Contains(endpoint, key) {
			best = key
		}
	}
	if best != "" {
		return table[best]
	}

	return DefaultCost
}

// ApplyOverrides merges per-endpoint cost overrides on top of the published
// table. Invalid entries are skipped.
func (c *Costs) ApplyOverrides(overrides map[string]int) {
	if c == nil || len(overrides) == 0 {
		return
	}

	if c.Table == nil {
		c.Table = make(map[string]int, len(DefaultCosts))
		for key, cost := range DefaultCosts {
			c.Table[key] = cost
		}
	}

	for endpoint, cost := range overrides {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint == "" || cost <= 0 {
			continue
		}
		c.Table[endpoint] = cost
	}
}

func (c *Costs) table() map[string]int {
	if c != nil && c.Table != nil {
		return c.Table
	}
	return DefaultCosts
}
