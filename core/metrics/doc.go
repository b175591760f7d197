// Package metrics defines the sinks that observe ledger runs. A sink must
// implement LedgerSink; it may also implement RunFailureRecorder to count
// rejected runs. Sinks are built from configuration through
// NewLedgerSink and combined with NewMultiSink when several are configured.
package metrics
