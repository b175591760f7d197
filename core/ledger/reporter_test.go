package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenfleet/greenfleet/core/model"
)

func yearOne() model.YearPlan {
	return model.YearPlan{
		Buy: []model.VehicleRecord{
			model.NewVehicle("V101", "Electric Truck", model.SizeLarge, 250000, 400),
			model.NewVehicle("V102", "Hybrid Van", model.SizeMedium, 180000, 320),
		},
		Retain: []model.VehicleRecord{
			model.NewVehicle("R201", "Diesel Truck", model.SizeLarge, 500000, 1500),
			model.NewVehicle("R202", "Electric Car", model.SizeSmall, 120000, 100),
		},
		Dispose: []model.VehicleRecord{
			model.NewVehicle("D301", "Old Diesel Van", model.SizeSmall, 8000, 900),
		},
	}
}

func TestGenerateReport_YearOne(t *testing.T) {
	rep, err := GenerateReport(model.FleetPlan{yearOne()}, []float64{5000})
	require.NoError(t, err)
	require.Len(t, rep.Years, 1)
	y := rep.Years[0]
	assert.Equal(t, 1, y.Year)
	assert.Equal(t, 3220.0, y.TotalEmissions)
	assert.True(t, y.TotalBuyCost.Equal(decimal.NewFromInt(430000)), "buy cost %s", y.TotalBuyCost)
	assert.Equal(t, 5000.0, y.Quota)
	assert.True(t, y.WithinQuota)
	assert.True(t, rep.Totals.TotalBudget.Equal(decimal.NewFromInt(430000)))
	assert.Empty(t, rep.OverQuotaYears())
}

func TestGenerateReport_Empty(t *testing.T) {
	rep, err := GenerateReport(model.FleetPlan{}, []float64{})
	require.NoError(t, err)
	assert.Empty(t, rep.Years)
	assert.True(t, rep.Totals.TotalBudget.IsZero())

	rep, err = GenerateReport(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rep.Years)
	assert.True(t, rep.Totals.TotalBudget.IsZero())
}

func TestGenerateReport_EmptyBuy(t *testing.T) {
	y := yearOne()
	y.Buy = nil
	rep, err := GenerateReport(model.FleetPlan{y}, []float64{1000})
	require.NoError(t, err)
	assert.True(t, rep.Years[0].TotalBuyCost.IsZero())
	assert.Equal(t, 2500.0, rep.Years[0].TotalEmissions)
	assert.False(t, rep.Years[0].WithinQuota)
	assert.Equal(t, []int{1}, rep.OverQuotaYears())
}

func TestGenerateReport_QuotaBoundary(t *testing.T) {
	plan := model.FleetPlan{yearOne()}

	rep, err := GenerateReport(plan, []float64{3220})
	require.NoError(t, err)
	assert.True(t, rep.Years[0].WithinQuota, "equal to quota is within quota")

	over := model.FleetPlan{{Retain: []model.VehicleRecord{
		model.NewVehicle("R1", "Car", model.SizeSmall, 0, math.Nextafter(3220, math.Inf(1))),
	}}}
	rep, err = GenerateReport(over, []float64{3220})
	require.NoError(t, err)
	assert.False(t, rep.Years[0].WithinQuota)

	zero := model.FleetPlan{{}}
	rep, err = GenerateReport(zero, []float64{0})
	require.NoError(t, err)
	assert.True(t, rep.Years[0].WithinQuota)
	assert.Zero(t, rep.Years[0].TotalEmissions)
}

func TestGenerateReport_TotalsMatchRecomputation(t *testing.T) {
	plan := make(model.FleetPlan, 5)
	quotas := make([]float64, 5)
	for i := range plan {
		plan[i] = yearOne()
		plan[i].Buy = plan[i].Buy[:i%3]
		quotas[i] = float64(1000 * i)
	}
	rep, err := GenerateReport(plan, quotas)
	require.NoError(t, err)
	require.Len(t, rep.Years, len(plan))

	sum := decimal.Zero
	for i, y := range rep.Years {
		assert.Equal(t, i+1, y.Year)
		sum = sum.Add(y.TotalBuyCost)
		assert.Equal(t, y.TotalEmissions <= quotas[i], y.WithinQuota)
	}
	assert.True(t, rep.Totals.TotalBudget.Equal(sum))
}

func TestGenerateReport_LengthMismatch(t *testing.T) {
	_, err := GenerateReport(model.FleetPlan{yearOne(), yearOne()}, []float64{5000})
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Index)
	assert.True(t, errors.Is(err, ErrInvalidPlan))
	assert.Contains(t, err.Error(), "year 2")
}

func TestGenerateReport_InvalidNumbers(t *testing.T) {
	bad := yearOne()
	bad.Dispose = append([]model.VehicleRecord(nil), bad.Dispose...)
	bad.Dispose[0].Emissions = math.Inf(1)
	_, err := GenerateReport(model.FleetPlan{yearOne(), bad}, []float64{5000, 5000})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)

	neg := yearOne()
	neg.Buy = []model.VehicleRecord{model.NewVehicle("V1", "Car", model.SizeSmall, -1, 0)}
	_, err = GenerateReport(model.FleetPlan{neg}, []float64{5000})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Index)

	_, err = GenerateReport(model.FleetPlan{yearOne()}, []float64{math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidPlan)
	_, err = GenerateReport(model.FleetPlan{yearOne()}, []float64{-1})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestGenerateReport_DoesNotMutateInput(t *testing.T) {
	plan := model.FleetPlan{yearOne()}
	before := plan.Clone()
	_, err := GenerateReport(plan, []float64{5000})
	require.NoError(t, err)
	assert.Equal(t, before, plan)
}
