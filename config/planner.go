package config

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/core/quota"
)

// PlannerConfig configures the optimizer and the quota handling.
type PlannerConfig struct {
	// Horizon is the number of plan years. It must match len(Quotas).
	Horizon int `json:"horizon"`
	// DelayMS is how long the optimizer takes. Negative disables the delay.
	DelayMS     int       `json:"delay_ms"`
	QuotaSource string    `json:"quota_source"`
	Quotas      []float64 `json:"quotas"`
	// DefaultLimit prefills the emission limit inputs.
	DefaultLimit string `json:"default_limit"`
	CacheSize    int    `json:"cache_size"`
}

// SetDefaults applies sane defaults.
func (c *PlannerConfig) SetDefaults() {
	if len(c.Quotas) == 0 {
		c.Quotas = slices.Clone(planner.DemoQuotas)
	}
	if c.Horizon == 0 {
		c.Horizon = len(c.Quotas)
	}
	if c.DelayMS == 0 {
		c.DelayMS = int(planner.DefaultDelay / time.Millisecond)
	}
	if c.QuotaSource == "" {
		c.QuotaSource = string(quota.SourceStatic)
	}
	if c.DefaultLimit == "" {
		c.DefaultLimit = quota.DefaultLimitText
	}
	if c.CacheSize == 0 {
		c.CacheSize = planner.DefaultCacheSize
	}
}

// Validate checks mandatory fields.
func (c PlannerConfig) Validate() error {
	if c.Horizon != len(c.Quotas) {
		return fmt.Errorf("horizon %d does not match %d quotas", c.Horizon, len(c.Quotas))
	}
	for i, q := range c.Quotas {
		if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("quota %d: invalid value %v", i+1, q)
		}
	}
	if _, err := quota.ParseSource(c.QuotaSource); err != nil {
		return err
	}
	if _, err := quota.ParseLimit(c.DefaultLimit); err != nil {
		return fmt.Errorf("default_limit: %w", err)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}
	return nil
}

// Delay returns the optimizer delay.
func (c PlannerConfig) Delay() time.Duration {
	if c.DelayMS < 0 {
		return 0
	}
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Source returns the parsed quota source.
func (c PlannerConfig) Source() quota.Source {
	src, err := quota.ParseSource(c.QuotaSource)
	if err != nil {
		return quota.SourceStatic
	}
	return src
}
