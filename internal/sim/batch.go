package sim

import (
	"context"
	"sync"

	"github.com/san-kum/tanklab/internal/dynamo"
	"github.com/san-kum/tanklab/internal/flows"
	"github.com/san-kum/tanklab/internal/linearize"
	"github.com/san-kum/tanklab/internal/tank"
)

// Scenario is one comparison case: an initial state and the schedules
// driving both simulators.
type Scenario struct {
	Name   string
	Flows  flows.Pair
	Height float64
	Temp   float64
}

// Comparison holds the nonlinear and linear trajectories for one
// scenario, produced under identical inputs.
type Comparison struct {
	Scenario  Scenario
	Nonlinear Trajectories
	Linear    Trajectories
}

// Compare runs both simulators for one scenario.
func Compare(ctx context.Context, tk *tank.Tank, lin *linearize.Linearization, sc Scenario, cfg dynamo.Config) (Comparison, error) {
	actual, _, err := Nonlinear(ctx, tk, sc.Flows, sc.Height, sc.Temp, cfg)
	if err != nil {
		return Comparison{}, err
	}
	approx, _, err := Linear(ctx, lin, sc.Flows, sc.Height, sc.Temp, cfg)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Scenario: sc, Nonlinear: actual, Linear: approx}, nil
}

// Batch runs a set of scenarios concurrently. Runs share nothing, so no
// coordination beyond the final join is needed.
type Batch struct {
	tk  *tank.Tank
	lin *linearize.Linearization
}

func NewBatch(tk *tank.Tank, lin *linearize.Linearization) *Batch {
	return &Batch{tk: tk, lin: lin}
}

func (b *Batch) Run(ctx context.Context, scenarios []Scenario, cfg dynamo.Config) ([]Comparison, error) {
	results := make([]Comparison, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(idx int, sc Scenario) {
			defer wg.Done()
			results[idx], errs[idx] = Compare(ctx, b.tk, b.lin, sc, cfg)
		}(i, sc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
