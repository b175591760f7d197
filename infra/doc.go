// Package infra groups the adapters that move ledger runs out of the
// process: zerolog logging, Prometheus and InfluxDB sinks, and the MQTT
// run publisher. Subpackages implement interfaces from core and are
// wired together in app.
package infra
