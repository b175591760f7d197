package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenfleet/greenfleet/core/factory"
	coremetrics "github.com/greenfleet/greenfleet/core/metrics"
)

// init registers built-in ledger sinks.
func init() {
	_ = coremetrics.RegisterLedgerSink("nop", func(map[string]any) (coremetrics.LedgerSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterLedgerSink("prometheus", func(map[string]any) (coremetrics.LedgerSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterLedgerSink("influx", func(conf map[string]any) (coremetrics.LedgerSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
