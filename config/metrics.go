package config

import "github.com/greenfleet/greenfleet/core/factory"

// defaultSinks keeps the Prometheus gauges up to date when no sink is configured.
func defaultSinks() []factory.ModuleConfig {
	return []factory.ModuleConfig{{Type: "prometheus"}}
}
