package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/tanklab/internal/flows"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero area", func(c *Config) { c.Constants.Area = 0 }},
		{"inverted inlet temps", func(c *Config) { c.Constants.HotTemp = 5 }},
		{"zero equilibrium height", func(c *Config) { c.Equilibrium.Height = 0 }},
		{"bad flow kind", func(c *Config) { c.Flows.Cold.Kind = "ramp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := DefaultConfig()
	cfg.InitState.Height = 1.5
	cfg.Flows.Cold = FlowConfig{Kind: "constant", Rate: 0.03}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.InitState.Height != 1.5 {
		t.Errorf("init height = %f, want 1.5", loaded.InitState.Height)
	}
	if loaded.Flows.Cold.Kind != "constant" || loaded.Flows.Cold.Rate != 0.03 {
		t.Errorf("cold flow not preserved: %+v", loaded.Flows.Cold)
	}
	if loaded.Flows.Hot.Kind != "step" {
		t.Errorf("hot flow default lost: %+v", loaded.Flows.Hot)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := DefaultConfig()
	cfg.Steps = -1
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected load to reject invalid config")
	}
}

func TestFlowPair(t *testing.T) {
	cfg := DefaultConfig()
	pair := cfg.FlowPair()

	if _, ok := pair.Cold.(flows.Piecewise); !ok {
		t.Errorf("expected piecewise cold schedule, got %T", pair.Cold)
	}
	if got := pair.Cold.Rate(25); got != 0.022 {
		t.Errorf("cold Rate(25) = %f, want 0.022", got)
	}

	eq := GetPreset("equilibrium")
	if eq == nil {
		t.Fatal("equilibrium preset missing")
	}
	eqPair := eq.FlowPair()
	if _, ok := eqPair.Cold.(flows.Constant); !ok {
		t.Errorf("expected constant cold schedule, got %T", eqPair.Cold)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"mixing", "high-cool", "low-hot", "equilibrium"} {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Errorf("preset %s missing", name)
			continue
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if GetPreset("nope") != nil {
		t.Error("expected nil for unknown preset")
	}

	if len(ListPresets()) != 4 {
		t.Errorf("expected 4 presets, got %d", len(ListPresets()))
	}
}

func TestTankFromConstants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Constants.Gravity = 9.81

	tk := cfg.Tank()
	if tk.Gravity != 9.81 {
		t.Errorf("gravity = %f, want 9.81", tk.Gravity)
	}
	if tk.Area != 3.0 {
		t.Errorf("area = %f, want 3.0", tk.Area)
	}
}
