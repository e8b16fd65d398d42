package export

import (
	"os"
	"testing"

	"github.com/san-kum/tanklab/internal/sim"
)

func TestWriteComparison(t *testing.T) {
	dir := t.TempDir()

	cmp := sim.Comparison{
		Nonlinear: sim.Trajectories{
			Heights: []float64{1.1, 1.09, 1.08},
			Temps:   []float64{81.5, 81.3, 81.1},
		},
		Linear: sim.Trajectories{
			Heights: []float64{1.1, 1.091, 1.082},
			Temps:   []float64{81.5, 81.31, 81.12},
		},
	}

	paths, err := WriteComparison(dir, cmp)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(paths))
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing chart %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("empty chart %s", p)
		}
	}
}
