package model

// YearPlan groups the vehicles of one plan year by action.
type YearPlan struct {
	Buy     []VehicleRecord `json:"buy"`
	Retain  []VehicleRecord `json:"retain"`
	Dispose []VehicleRecord `json:"dispose"`
}

// Vehicles returns the vehicles recorded for the action.
func (y YearPlan) Vehicles(a Action) []VehicleRecord {
	switch a {
	case ActionBuy:
		return y.Buy
	case ActionRetain:
		return y.Retain
	case ActionDispose:
		return y.Dispose
	default:
		return nil
	}
}

// Len returns the number of vehicles across all actions.
func (y YearPlan) Len() int { return len(y.Buy) + len(y.Retain) + len(y.Dispose) }

// Clone returns a deep copy of the year.
func (y YearPlan) Clone() YearPlan {
	return YearPlan{
		Buy:     cloneVehicles(y.Buy),
		Retain:  cloneVehicles(y.Retain),
		Dispose: cloneVehicles(y.Dispose),
	}
}

// FleetPlan holds one YearPlan per year of the planning horizon. Index 0 is
// the first year.
type FleetPlan []YearPlan

// Horizon returns the number of planned years.
func (p FleetPlan) Horizon() int { return len(p) }

// Clone returns a deep copy of the plan.
func (p FleetPlan) Clone() FleetPlan {
	if p == nil {
		return nil
	}
	out := make(FleetPlan, len(p))
	for i, y := range p {
		out[i] = y.Clone()
	}
	return out
}

func cloneVehicles(in []VehicleRecord) []VehicleRecord {
	if in == nil {
		return nil
	}
	out := make([]VehicleRecord, len(in))
	copy(out, in)
	return out
}
