// Package analysis reduces simulator output to comparison statistics:
// how far the linearized trajectory drifts from the true one.
package analysis

import "math"

// Divergence summarizes the pointwise gap between two equal-length
// series.
type Divergence struct {
	RMS     float64
	Max     float64
	MaxStep int
	Final   float64
}

// Compare computes the divergence of approx from actual. The series must
// have equal length; NaN samples poison RMS and Final the way they would
// any downstream plot, but are skipped for the Max position.
func Compare(actual, approx []float64) Divergence {
	n := len(actual)
	if len(approx) < n {
		n = len(approx)
	}
	if n == 0 {
		return Divergence{}
	}

	var sumSq float64
	d := Divergence{MaxStep: -1}
	for i := 0; i < n; i++ {
		err := math.Abs(actual[i] - approx[i])
		sumSq += err * err
		if !math.IsNaN(err) && err > d.Max {
			d.Max = err
			d.MaxStep = i
		}
	}
	d.RMS = math.Sqrt(sumSq / float64(n))
	d.Final = math.Abs(actual[n-1] - approx[n-1])
	return d
}

// Errors returns the per-step absolute gap, for plotting.
func Errors(actual, approx []float64) []float64 {
	n := len(actual)
	if len(approx) < n {
		n = len(approx)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Abs(actual[i] - approx[i])
	}
	return out
}
