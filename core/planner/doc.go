// Package planner produces fleet plans and turns them into ledger runs.
//
// The Optimizer interface is the extension point for a real replacement
// planner. StaticOptimizer, the only implementation, waits for a short delay
// and returns the built-in five-year demonstration plan whatever the input.
//
// Service ties an Optimizer to the quota policy and the ledger: every Run
// resolves the quotas, generates the yearly report, records it on the
// configured metrics sink and announces it on the event bus. Recent runs are
// kept in memory so that exports can refer to them by ID.
package planner
