package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tubelens/tubelens/internal/core/quota"
)

// Resolve builds the effective cost table: the provider's published costs,
// then the override file, then inline overrides.
func (c CostsConfig) Resolve() (*quota.Costs, error) {
	costs := &quota.Costs{}

	if path := strings.TrimSpace(c.File); path != "" {
		fromFile, err := loadCostFile(path)
		if err != nil {
			return nil, err
		}
		costs.ApplyOverrides(fromFile)
	}

	costs.ApplyOverrides(c.Overrides)
	return costs, nil
}

// loadCostFile reads a flat endpoint-to-points mapping, e.g.
//
//	search.list: 100
//	videos.list: 2
func loadCostFile(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cost table: %w", err)
	}

	table := map[string]int{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse cost table %s: %w", path, err)
	}
	return table, nil
}
