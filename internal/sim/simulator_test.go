package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tanklab/internal/dynamo"
)

type testDynamics struct{}

func (d *testDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{-x[0]}
}

func (d *testDynamics) StateDim() int   { return 1 }
func (d *testDynamics) ControlDim() int { return 0 }

type testIntegrator struct{}

func (i *testIntegrator) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	return dynamo.State{x[0] + dt*dx[0]}
}

type testController struct{}

func (c *testController) Compute(x dynamo.State, step int) dynamo.Control {
	return dynamo.Control{}
}

func TestSimulatorRun(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{}, &testController{})

	cfg := dynamo.Config{Steps: 10, Dt: 0.1}
	result, err := s.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if traj := result.Trajectory(0); len(traj) != 10 {
		t.Errorf("expected trajectory of 10, got %d", len(traj))
	}

	finalState := result.States[len(result.States)-1][0]
	expected := 1.0 * math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{}, &testController{})

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero steps", dynamo.Config{Steps: 0, Dt: 1.0}},
		{"negative steps", dynamo.Config{Steps: -1, Dt: 1.0}},
		{"zero dt", dynamo.Config{Steps: 100, Dt: 0}},
		{"negative dt", dynamo.Config{Steps: 100, Dt: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), dynamo.State{1.0}, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(x dynamo.State, u dynamo.Control, t float64) {
	m.count++
	m.sum += x[0]
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{}, &testController{})

	metric := &testMetric{}
	s.AddMetric(metric)

	cfg := dynamo.Config{Steps: 10, Dt: 0.1}
	result, err := s.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

type nanDynamics struct{}

func (d *nanDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{math.NaN()}
}

func (d *nanDynamics) StateDim() int   { return 1 }
func (d *nanDynamics) ControlDim() int { return 0 }

func TestValidateStateStopsRun(t *testing.T) {
	s := New(&nanDynamics{}, &testIntegrator{}, &testController{})

	cfg := dynamo.Config{Steps: 10, Dt: 1.0, ValidateState: true}
	result, err := s.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected a recorded error")
	}
	if !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", result.Errors[0])
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("expected a SimulationError, got %T", result.Errors[0])
	}
	if simErr.Step != 0 || !math.IsNaN(simErr.State[0]) {
		t.Errorf("expected the offending step and state recorded, got step %d state %v", simErr.Step, simErr.State)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected run to stop at the first bad step, took %d", result.StepsTaken)
	}
}

func TestRunDimensionMismatch(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{}, &testController{})

	_, err := s.Run(context.Background(), dynamo.State{1.0, 75.0}, dynamo.Config{Steps: 10, Dt: 0.1})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNaNPropagatesWithoutValidation(t *testing.T) {
	s := New(&nanDynamics{}, &testIntegrator{}, &testController{})

	cfg := dynamo.Config{Steps: 10, Dt: 1.0}
	result, err := s.Run(context.Background(), dynamo.State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if traj := result.Trajectory(0); len(traj) != 10 {
		t.Fatalf("trajectory length contract broken: %d", len(traj))
	}
	if !math.IsNaN(result.States[len(result.States)-1][0]) {
		t.Error("expected NaN to propagate through the run")
	}
}

func TestRunCanceledContext(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{}, &testController{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, dynamo.State{1.0}, dynamo.Config{Steps: 10, Dt: 0.1})
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
}
