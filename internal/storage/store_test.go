package storage

import (
	"testing"

	"github.com/san-kum/tanklab/internal/sim"
)

func testComparison() sim.Comparison {
	return sim.Comparison{
		Scenario: sim.Scenario{Name: "mixing", Height: 1.1, Temp: 81.5},
		Nonlinear: sim.Trajectories{
			Heights: []float64{1.0998, 1.0995},
			Temps:   []float64{81.38, 81.27},
		},
		Linear: sim.Trajectories{
			Heights: []float64{1.0997, 1.0994},
			Temps:   []float64{81.39, 81.28},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Scenario: "mixing",
		Steps:    2,
		Dt:       1.0,
		InitH:    1.1,
		InitT:    81.5,
		EqH:      1.0,
		EqT:      75.0,
		Metrics:  map[string]float64{"height_rms": 0.0001},
	}

	runID, err := st.Save(meta, testComparison())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Scenario != "mixing" {
		t.Errorf("scenario = %q, want mixing", loaded.Scenario)
	}
	if loaded.EqT != 75.0 {
		t.Errorf("eq temp = %f, want 75.0", loaded.EqT)
	}
	if loaded.Metrics["height_rms"] != 0.0001 {
		t.Errorf("metric = %f, want 0.0001", loaded.Metrics["height_rms"])
	}
}

func TestStoreTrajectoriesRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cmp := testComparison()
	runID, err := st.Save(RunMetadata{Scenario: "mixing", Steps: 2, Dt: 1.0}, cmp)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	actual, linear, err := st.LoadTrajectories(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(actual.Heights) != 2 || len(linear.Heights) != 2 {
		t.Fatalf("expected 2 samples per series, got %d/%d", len(actual.Heights), len(linear.Heights))
	}
	// CSV stores 6 decimal places.
	if actual.Heights[0] != 1.0998 {
		t.Errorf("height = %v, want 1.0998", actual.Heights[0])
	}
	if linear.Temps[1] != 81.28 {
		t.Errorf("temp = %v, want 81.28", linear.Temps[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{Scenario: "mixing"}, testComparison()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("no_such_run"); err == nil {
		t.Error("expected error for missing run")
	}
}
