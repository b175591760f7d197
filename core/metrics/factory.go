package metrics

import "github.com/greenfleet/greenfleet/core/factory"

var sinkRegistry = factory.NewRegistry[LedgerSink]()

// RegisterLedgerSink adds a sink factory identified by name.
func RegisterLedgerSink(name string, f factory.Factory[LedgerSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewLedgerSink creates the sink described by cfgs. No entries yield a
// NopSink and several entries a MultiSink.
func NewLedgerSink(cfgs []factory.ModuleConfig) (LedgerSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]LedgerSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
