package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/greenfleet/greenfleet/core/model"
)

// FlatRecord is one exported plan row.
type FlatRecord struct {
	Year        int             `json:"year"`
	Action      model.Action    `json:"action"`
	VehicleID   string          `json:"vehicle_id"`
	VehicleType string          `json:"vehicle_type"`
	Size        model.Size      `json:"size"`
	Cost        decimal.Decimal `json:"cost_myr"`
	Emissions   float64         `json:"emissions_kg_co2"`
}

// FlattenForExport lists every vehicle of the plan, ordered by year, then
// buy, retain and dispose, then by position within the action.
func FlattenForExport(plan model.FleetPlan) []FlatRecord {
	n := 0
	for _, y := range plan {
		n += y.Len()
	}
	out := make([]FlatRecord, 0, n)
	for i, year := range plan {
		for _, a := range model.Actions {
			for _, v := range year.Vehicles(a) {
				out = append(out, FlatRecord{
					Year:        i + 1,
					Action:      a,
					VehicleID:   v.ID,
					VehicleType: v.Type,
					Size:        v.Size,
					Cost:        v.Cost,
					Emissions:   v.Emissions,
				})
			}
		}
	}
	return out
}
