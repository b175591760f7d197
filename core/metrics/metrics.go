package metrics

import (
	"time"

	"github.com/greenfleet/greenfleet/core/ledger"
)

// RunEvent describes a completed ledger run.
type RunEvent struct {
	RunID         string
	Report        ledger.Report
	QuotaSource   string
	QuotaMismatch bool
	Duration      time.Duration
	Time          time.Time
}

// LedgerSink records completed ledger runs.
type LedgerSink interface {
	RecordLedger(ev RunEvent) error
}

// RunFailureEvent describes a run that could not produce a ledger.
type RunFailureEvent struct {
	// Reason is a short machine friendly label such as "invalid_plan".
	Reason string
	Time   time.Time
}

// RunFailureRecorder is implemented by sinks able to count failed runs.
type RunFailureRecorder interface {
	RecordRunFailure(ev RunFailureEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordLedger(RunEvent) error             { return nil }
func (NopSink) RecordRunFailure(RunFailureEvent) error { return nil }
