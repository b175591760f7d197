package ledger

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"

	"github.com/greenfleet/greenfleet/core/model"
)

// YearSummary is the ledger line of one plan year.
type YearSummary struct {
	Year           int             `json:"year"`
	TotalEmissions float64         `json:"total_emissions_kg_co2"`
	TotalBuyCost   decimal.Decimal `json:"total_buy_cost_myr"`
	Quota          float64         `json:"quota_kg_co2"`
	WithinQuota    bool            `json:"within_quota"`
}

// LedgerTotals accumulates values across every plan year.
type LedgerTotals struct {
	TotalBudget decimal.Decimal `json:"total_budget_myr"`
}

// Report is the yearly ledger of a plan.
type Report struct {
	Years  []YearSummary `json:"years"`
	Totals LedgerTotals  `json:"totals"`
}

// OverQuotaYears returns the 1-based years whose emissions exceed the quota.
func (r Report) OverQuotaYears() []int {
	var years []int
	for _, y := range r.Years {
		if !y.WithinQuota {
			years = append(years, y.Year)
		}
	}
	return years
}

// GenerateReport validates the plan against the quotas and computes the
// ledger. quotas[i] applies to plan[i].
func GenerateReport(plan model.FleetPlan, quotas []float64) (Report, error) {
	if err := Validate(plan, quotas); err != nil {
		return Report{}, err
	}
	rep := Report{
		Years:  make([]YearSummary, 0, len(plan)),
		Totals: LedgerTotals{TotalBudget: decimal.Zero},
	}
	for i, year := range plan {
		emissions := make([]float64, 0, year.Len())
		for _, a := range model.Actions {
			for _, v := range year.Vehicles(a) {
				emissions = append(emissions, v.Emissions)
			}
		}
		buyCost := decimal.Zero
		for _, v := range year.Buy {
			buyCost = buyCost.Add(v.Cost)
		}
		total := floats.Sum(emissions)
		rep.Years = append(rep.Years, YearSummary{
			Year:           i + 1,
			TotalEmissions: total,
			TotalBuyCost:   buyCost,
			Quota:          quotas[i],
			WithinQuota:    total <= quotas[i],
		})
		rep.Totals.TotalBudget = rep.Totals.TotalBudget.Add(buyCost)
	}
	return rep, nil
}

// Validate checks the preconditions of GenerateReport.
func Validate(plan model.FleetPlan, quotas []float64) error {
	if len(plan) != len(quotas) {
		return &ValidationError{
			Index: min(len(plan), len(quotas)),
			Msg:   fmt.Sprintf("plan covers %d years but %d quotas were given", len(plan), len(quotas)),
		}
	}
	for i, year := range plan {
		q := quotas[i]
		if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			return &ValidationError{Index: i, Msg: fmt.Sprintf("quota %v must be a non-negative finite number", q)}
		}
		for _, a := range model.Actions {
			for _, v := range year.Vehicles(a) {
				if err := v.Validate(); err != nil {
					return &ValidationError{Index: i, Msg: fmt.Sprintf("%s: %v", a, err)}
				}
			}
		}
	}
	return nil
}
