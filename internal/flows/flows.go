// Package flows provides the open-loop flow schedules driving the tank:
// piecewise-constant step policies and fixed equilibrium rates.
package flows

import "github.com/san-kum/tanklab/internal/dynamo"

// Piecewise is a one-step policy: Before up to and including Until,
// After from the next step on.
type Piecewise struct {
	Until  int
	Before float64
	After  float64
}

func (p Piecewise) Rate(step int) float64 {
	if step <= p.Until {
		return p.Before
	}
	return p.After
}

// Constant returns the same rate at every step.
type Constant struct {
	Value float64
}

func (c Constant) Rate(step int) float64 {
	return c.Value
}

// Pair bundles the cold and hot schedules into a Controller.
type Pair struct {
	Cold dynamo.FlowSchedule
	Hot  dynamo.FlowSchedule
}

func (p Pair) Compute(x dynamo.State, step int) dynamo.Control {
	return dynamo.Control{p.Cold.Rate(step), p.Hot.Rate(step)}
}

// Scenario is the worked mixing scenario: cold steps up at 25, hot steps
// down at 60.
func Scenario() Pair {
	return Pair{
		Cold: Piecewise{Until: 25, Before: 0.022, After: 0.043},
		Hot:  Piecewise{Until: 60, Before: 0.14, After: 0.105},
	}
}

// Equilibrium holds both inlets at fixed rates, typically the rates
// solved for an operating point.
func Equilibrium(qC, qH float64) Pair {
	return Pair{
		Cold: Constant{Value: qC},
		Hot:  Constant{Value: qH},
	}
}
