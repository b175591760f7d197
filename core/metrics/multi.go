package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []LedgerSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...LedgerSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordLedger forwards the run to every sink. All sinks are attempted and
// their errors joined.
func (m *MultiSink) RecordLedger(ev RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordLedger(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRunFailure forwards the failure to sinks implementing RunFailureRecorder.
func (m *MultiSink) RecordRunFailure(ev RunFailureEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RunFailureRecorder); ok {
			if err := rec.RecordRunFailure(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
