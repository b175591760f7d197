package planner

import (
	"context"
	"time"

	"github.com/greenfleet/greenfleet/core/fleet"
	"github.com/greenfleet/greenfleet/core/model"
)

// Request carries the operator input of a planning run.
type Request struct {
	// Dataset is the uploaded fleet, nil when nothing was uploaded.
	Dataset *fleet.Dataset
	// Limits are the parsed emission limits in kg CO2, one per plan year.
	// Nil means no limits were entered.
	Limits []float64
}

// Optimizer computes a buy/retain/dispose plan.
type Optimizer interface {
	Optimize(ctx context.Context, req Request) (model.FleetPlan, error)
}

// FixedHorizon is implemented by optimizers whose plans always cover the
// same number of years.
type FixedHorizon interface {
	Horizon() int
}

// DefaultDelay is the time StaticOptimizer pretends to work.
const DefaultDelay = 1200 * time.Millisecond

// StaticOptimizer returns a fixed plan after Delay. The request is ignored.
type StaticOptimizer struct {
	Delay time.Duration
	Plan  model.FleetPlan
}

// NewStaticOptimizer returns a StaticOptimizer serving DemoPlan.
func NewStaticOptimizer(delay time.Duration) *StaticOptimizer {
	return &StaticOptimizer{Delay: delay, Plan: DemoPlan()}
}

// Optimize waits for Delay, or until ctx is done, and returns a copy of Plan.
func (s *StaticOptimizer) Optimize(ctx context.Context, _ Request) (model.FleetPlan, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Plan.Clone(), nil
}

// Horizon returns the number of years covered by Plan.
func (s *StaticOptimizer) Horizon() int { return s.Plan.Horizon() }
