package analysis

import (
	"math"
	"testing"
)

func TestCompareIdenticalSeries(t *testing.T) {
	series := []float64{1.0, 1.1, 1.2}
	d := Compare(series, series)

	if d.RMS != 0 || d.Max != 0 || d.Final != 0 {
		t.Errorf("identical series should have zero divergence, got %+v", d)
	}
}

func TestCompareKnownGap(t *testing.T) {
	actual := []float64{1.0, 2.0, 3.0, 4.0}
	approx := []float64{1.0, 2.5, 3.0, 3.9}

	d := Compare(actual, approx)

	if d.Max != 0.5 {
		t.Errorf("max = %f, want 0.5", d.Max)
	}
	if d.MaxStep != 1 {
		t.Errorf("max step = %d, want 1", d.MaxStep)
	}
	if math.Abs(d.Final-0.1) > 1e-12 {
		t.Errorf("final = %f, want 0.1", d.Final)
	}

	wantRMS := math.Sqrt((0.25 + 0.01) / 4.0)
	if math.Abs(d.RMS-wantRMS) > 1e-12 {
		t.Errorf("rms = %f, want %f", d.RMS, wantRMS)
	}
}

func TestCompareEmpty(t *testing.T) {
	d := Compare(nil, nil)
	if d.RMS != 0 || d.Max != 0 {
		t.Errorf("empty series should be zero divergence, got %+v", d)
	}
}

func TestErrors(t *testing.T) {
	actual := []float64{1.0, 2.0}
	approx := []float64{0.5, 2.5}

	errs := Errors(actual, approx)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0] != 0.5 || errs[1] != 0.5 {
		t.Errorf("got %v, want [0.5 0.5]", errs)
	}
}
