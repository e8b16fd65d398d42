package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1.0, 75.0}
	c := s.Clone()
	c[0] = 2.0

	if s[0] != 1.0 {
		t.Error("clone mutated the original")
	}
}

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"finite", State{1.0, 75.0}, true},
		{"nan", State{math.NaN(), 75.0}, false},
		{"inf", State{1.0, math.Inf(1)}, false},
		{"empty", State{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateArithmetic(t *testing.T) {
	a := State{1.0, 2.0}
	b := State{0.5, 1.0}

	if got := a.Sub(b); got[0] != 0.5 || got[1] != 1.0 {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Add(b); got[0] != 1.5 || got[1] != 3.0 {
		t.Errorf("Add = %v", got)
	}
	if got := a.Scale(2); got[0] != 2.0 || got[1] != 4.0 {
		t.Errorf("Scale = %v", got)
	}
	if got := (State{3.0, 4.0}).Norm(); got != 5.0 {
		t.Errorf("Norm = %v, want 5", got)
	}
}

func TestResultTrajectory(t *testing.T) {
	r := &Result{
		States: []State{{1.1, 81.5}, {1.09, 81.3}, {1.08, 81.1}},
	}

	heights := r.Trajectory(0)
	if len(heights) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(heights))
	}
	if heights[0] != 1.09 {
		t.Errorf("first sample = %v, want post-update state", heights[0])
	}
}

func TestSimulationErrorWrapsSentinel(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 3.0, State: State{math.NaN(), 75.0}, Wrapped: ErrInvalidState}

	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected errors.Is to match the wrapped sentinel")
	}
	want := "step 3 (t=3.0000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
