package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

type Control []float64

// System is an ODE right-hand side dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// FlowSchedule maps a discrete step index to a single flow rate.
// Schedules are open-loop: they never observe the state.
type FlowSchedule interface {
	Rate(step int) float64
}

// Controller produces the control vector for a step.
type Controller interface {
	Compute(x State, step int) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Steps int
	Dt    float64
	// ValidateState stops the run with a recorded SimulationError once
	// the state goes NaN/Inf (e.g. the tank drains below zero). Off by
	// default so a faithful run propagates NaN instead of shortening the
	// trajectory.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps: 100,
		Dt:    1.0,
	}
}

type Result struct {
	// States[0] is the initial state; States[1:] are post-update samples,
	// one per step.
	States     []State
	Controls   []Control
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Trajectory returns the post-update samples of one state component,
// excluding the initial state.
func (r *Result) Trajectory(idx int) []float64 {
	out := make([]float64, 0, len(r.States)-1)
	for _, s := range r.States[1:] {
		out = append(out, s[idx])
	}
	return out
}
