// Package mqtt defines how completed ledger runs are announced to other
// systems over a message broker.
package mqtt

import "github.com/greenfleet/greenfleet/core/planner"

// RunPublisher announces completed runs.
type RunPublisher interface {
	PublishRun(run planner.Run) error
}
