package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/greenfleet/greenfleet/core/fleet"
	"github.com/greenfleet/greenfleet/core/model"
	"github.com/greenfleet/greenfleet/core/planner"
)

type limitField struct {
	Year  int
	Name  string
	Value string
	Error string
}

type actionSection struct {
	Title    string
	Vehicles []model.VehicleRecord
}

type yearView struct {
	Year      int
	Sections  []actionSection
	Quota     float64
	Emissions float64
	Within    bool
}

type runView struct {
	ID            string
	Years         []yearView
	Budget        decimal.Decimal
	QuotaSource   string
	QuotaMismatch bool
	ExportURL     string
}

type optimizerPage struct {
	Horizon        int
	Limits         []limitField
	Errors         []string
	Dataset        *fleet.Dataset
	DatasetColumns []string
	Result         *runView
}

type aboutPage struct {
	Horizon int
}

func limitName(year int) string { return fmt.Sprintf("limit_%d", year) }

func newLimitFields(values []string) []limitField {
	fields := make([]limitField, len(values))
	for i, v := range values {
		fields[i] = limitField{Year: i + 1, Name: limitName(i + 1), Value: v}
	}
	return fields
}

func newRunView(run *planner.Run) *runView {
	v := &runView{
		ID:            run.ID,
		Budget:        run.Report.Totals.TotalBudget,
		QuotaSource:   string(run.QuotaSource),
		QuotaMismatch: run.QuotaMismatch,
		ExportURL:     "/optimizer/runs/" + run.ID + "/export.csv",
	}
	for i, y := range run.Report.Years {
		yv := yearView{
			Year:      y.Year,
			Quota:     y.Quota,
			Emissions: y.TotalEmissions,
			Within:    y.WithinQuota,
		}
		for _, a := range model.Actions {
			yv.Sections = append(yv.Sections, actionSection{Title: a.Title(), Vehicles: run.Plan[i].Vehicles(a)})
		}
		v.Years = append(v.Years, yv)
	}
	return v
}
