// Package ledger turns a fleet plan into a yearly ledger.
//
// GenerateReport sums the emissions of every vehicle of a plan year, the
// purchase cost of the vehicles bought that year, compares the emissions with
// the year's quota and accumulates the overall procurement budget.
// FlattenForExport produces one row per vehicle, per action and per year in a
// stable order suitable for CSV or JSON export.
//
// Both operations are pure: they only read their inputs and allocate new
// outputs, so they may be called concurrently.
package ledger
