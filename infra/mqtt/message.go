package mqtt

import (
	"time"

	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/core/planner"
)

// RunMessage is the JSON payload published for a completed run.
type RunMessage struct {
	RunID         string               `json:"run_id"`
	CreatedAt     time.Time            `json:"created_at"`
	QuotaSource   string               `json:"quota_source"`
	QuotaMismatch bool                 `json:"quota_mismatch"`
	Years         []ledger.YearSummary `json:"years"`
	TotalBudget   string               `json:"total_budget_myr"`
	OverQuota     []int                `json:"over_quota_years"`
}

// NewRunMessage summarizes a run for publication.
func NewRunMessage(run planner.Run) RunMessage {
	over := run.Report.OverQuotaYears()
	if over == nil {
		over = []int{}
	}
	return RunMessage{
		RunID:         run.ID,
		CreatedAt:     run.CreatedAt,
		QuotaSource:   string(run.QuotaSource),
		QuotaMismatch: run.QuotaMismatch,
		Years:         run.Report.Years,
		TotalBudget:   run.Report.Totals.TotalBudget.String(),
		OverQuota:     over,
	}
}
