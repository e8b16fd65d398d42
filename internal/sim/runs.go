package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/tanklab/internal/dynamo"
	"github.com/san-kum/tanklab/internal/flows"
	"github.com/san-kum/tanklab/internal/integrators"
	"github.com/san-kum/tanklab/internal/linearize"
	"github.com/san-kum/tanklab/internal/tank"
)

// Trajectories is the pair of height/temperature series a tank run
// produces, one sample per step.
type Trajectories struct {
	Heights []float64
	Temps   []float64
}

func trajectories(r *dynamo.Result) Trajectories {
	return Trajectories{
		Heights: r.Trajectory(0),
		Temps:   r.Trajectory(1),
	}
}

// Nonlinear integrates the true tank dynamics with forward Euler from
// (h0, t0) under the given flow schedules.
func Nonlinear(ctx context.Context, tk *tank.Tank, fl flows.Pair, h0, t0 float64, cfg dynamo.Config, obs ...dynamo.Observer) (Trajectories, *dynamo.Result, error) {
	return NonlinearWith(ctx, tk, integrators.NewEuler(), fl, h0, t0, cfg, obs...)
}

// NonlinearWith is Nonlinear with a caller-chosen stepping scheme.
func NonlinearWith(ctx context.Context, tk *tank.Tank, integ dynamo.Integrator, fl flows.Pair, h0, t0 float64, cfg dynamo.Config, obs ...dynamo.Observer) (Trajectories, *dynamo.Result, error) {
	s := New(tk, integ, fl)
	for _, o := range obs {
		s.AddObserver(o)
	}
	result, err := s.Run(ctx, dynamo.State{h0, t0}, cfg)
	if err != nil {
		return Trajectories{}, nil, err
	}
	classifyDrained(result)
	return trajectories(result), result, nil
}

// classifyDrained upgrades a generic invalid-state stop to ErrDrained
// when the height component is what broke: the square root goes NaN the
// step after the height turns non-positive.
func classifyDrained(r *dynamo.Result) {
	for i, runErr := range r.Errors {
		var simErr *dynamo.SimulationError
		if !errors.As(runErr, &simErr) || !errors.Is(simErr, dynamo.ErrInvalidState) {
			continue
		}
		if len(simErr.State) > 0 && (math.IsNaN(simErr.State[0]) || simErr.State[0] <= 0) {
			r.Errors[i] = &dynamo.SimulationError{
				Step: simErr.Step, Time: simErr.Time, State: simErr.State,
				Wrapped: dynamo.ErrDrained,
			}
		}
	}
}

// Linear integrates the Jacobian linearization of the tank about
// (lin.Height, lin.Temp) under the same contract as Nonlinear. The run
// propagates the delta state and the returned trajectories are shifted
// back to absolute coordinates.
func Linear(ctx context.Context, lin *linearize.Linearization, fl flows.Pair, h0, t0 float64, cfg dynamo.Config, obs ...dynamo.Observer) (Trajectories, *dynamo.Result, error) {
	model := linearize.NewModel(lin)
	s := New(model, integrators.NewEuler(), fl)
	for _, o := range obs {
		s.AddObserver(o)
	}

	dx0 := model.Shift(dynamo.State{h0, t0})
	result, err := s.Run(ctx, dx0, cfg)
	if err != nil {
		return Trajectories{}, nil, err
	}

	// Unshift in place so stored results are absolute too.
	for i, x := range result.States {
		result.States[i] = model.Unshift(x)
	}
	return trajectories(result), result, nil
}

// Trace prints per-step state and controls, the diagnostic side channel
// of a run. It is an Observer so it stays out of the simulation itself.
type Trace struct {
	W io.Writer
}

func (tr Trace) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	fmt.Fprintf(tr.W, "t=%6.1f  h=%.6f  T=%.6f  qC=%.4f  qH=%.4f\n", t, x[0], x[1], u[0], u[1])
}
