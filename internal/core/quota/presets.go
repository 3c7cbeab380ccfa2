package quota

import (
	"strings"
	"time"
)

// Preset is a named throttle configuration bundled with the tool.
type Preset struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Config      ThrottleConfig `json:"config"`
}

// BuiltInPresets provides default throttle shapes. Each keeps a reserve of at
// least 60 points so the wait cap holds admissions near one per second at
// saturation.
var BuiltInPresets = []Preset{
	{
		Name:        "default",
		Description: "Balanced throttling for interactive use",
		Config:      DefaultThrottleConfig,
	},
	{
		Name:        "gentle",
		Description: "Starts backing off early and waits longer, for shared API projects",
		Config: ThrottleConfig{
			Threshold:         15,
			MaxQuotaPerMinute: 75,
			MaxWait:           2 * time.Second,
		},
	},
	{
		Name:        "brisk",
		Description: "Defers backoff for short bursty sessions with quota to spare",
		Config: ThrottleConfig{
			Threshold:         60,
			MaxQuotaPerMinute: 120,
			MaxWait:           time.Second,
		},
	},
}

// FindPreset looks up a built-in preset by name.
func FindPreset(name string) (*Preset, bool) {
	needle := strings.TrimSpace(strings.ToLower(name))
	if needle == "" {
		return nil, false
	}

	for _, preset := range BuiltInPresets {
		if strings.EqualFold(preset.Name, needle) {
			copied := preset
			return &copied, true
		}
	}

	return nil, false
}
