package planner

import "github.com/greenfleet/greenfleet/core/model"

// DemoQuotas are the per-year emission quotas, in kg CO2, of the
// demonstration plan.
var DemoQuotas = []float64{5000, 4800, 4600, 4400, 4200}

// DemoPlan returns the five-year demonstration plan.
func DemoPlan() model.FleetPlan {
	v := model.NewVehicle
	return model.FleetPlan{
		{
			Buy: []model.VehicleRecord{
				v("V101", "Electric Truck", model.SizeLarge, 250000, 400),
				v("V102", "Hybrid Van", model.SizeMedium, 180000, 320),
			},
			Retain: []model.VehicleRecord{
				v("R201", "Diesel Truck", model.SizeLarge, 500000, 1500),
				v("R202", "Electric Car", model.SizeSmall, 120000, 100),
			},
			Dispose: []model.VehicleRecord{
				v("D301", "Old Diesel Van", model.SizeSmall, 8000, 900),
			},
		},
		{
			Buy: []model.VehicleRecord{
				v("V103", "Electric Truck", model.SizeLarge, 260000, 350),
				v("V104", "Hybrid SUV", model.SizeMedium, 220000, 400),
			},
			Retain: []model.VehicleRecord{
				v("R203", "Electric Van", model.SizeMedium, 210000, 200),
				v("R204", "Diesel Truck", model.SizeLarge, 480000, 1400),
			},
			Dispose: []model.VehicleRecord{
				v("D302", "Old Diesel Truck", model.SizeLarge, 15000, 1600),
			},
		},
		{
			Buy: []model.VehicleRecord{
				v("V105", "Electric Car", model.SizeSmall, 130000, 80),
				v("V106", "Hybrid Truck", model.SizeLarge, 290000, 500),
			},
			Retain: []model.VehicleRecord{
				v("R205", "Electric Van", model.SizeMedium, 230000, 180),
				v("R206", "Diesel Van", model.SizeMedium, 180000, 900),
			},
			Dispose: []model.VehicleRecord{
				v("D303", "Old Diesel SUV", model.SizeMedium, 20000, 1200),
			},
		},
		{
			Buy: []model.VehicleRecord{
				v("V107", "Electric SUV", model.SizeMedium, 250000, 150),
				v("V108", "Hybrid Truck", model.SizeLarge, 300000, 450),
			},
			Retain: []model.VehicleRecord{
				v("R207", "Diesel Truck", model.SizeLarge, 510000, 1300),
				v("R208", "Electric Car", model.SizeSmall, 140000, 90),
			},
			Dispose: []model.VehicleRecord{
				v("D304", "Old Diesel Van", model.SizeSmall, 7000, 850),
			},
		},
		{
			Buy: []model.VehicleRecord{
				v("V109", "Electric Truck", model.SizeLarge, 280000, 320),
				v("V110", "Electric SUV", model.SizeMedium, 260000, 200),
			},
			Retain: []model.VehicleRecord{
				v("R209", "Hybrid Truck", model.SizeLarge, 320000, 1000),
				v("R210", "Electric Van", model.SizeMedium, 220000, 150),
			},
			Dispose: []model.VehicleRecord{
				v("D305", "Old Diesel Truck", model.SizeLarge, 10000, 1800),
			},
		},
	}
}
