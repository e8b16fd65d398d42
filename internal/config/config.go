package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tanklab/internal/dynamo"
	"github.com/san-kum/tanklab/internal/flows"
	"github.com/san-kum/tanklab/internal/tank"
)

const (
	DefaultSteps     = 100
	DefaultDt        = 1.0
	DefaultH0        = 1.1
	DefaultT0        = 81.5
	DefaultEqHeight  = 1.0
	DefaultEqTemp    = 75.0
	DefaultColdTemp  = 10.0
	DefaultHotTemp   = 90.0
	DefaultOrifice   = 0.05
	DefaultArea      = 3.0
	DefaultDischarge = 0.7
	DefaultGravity   = 9.8
)

type Config struct {
	Steps       int               `yaml:"steps"`
	Dt          float64           `yaml:"dt"`
	Strict      bool              `yaml:"strict"` // stop the run on NaN/Inf state
	Constants   ConstantsConfig   `yaml:"constants"`
	InitState   InitStateConfig   `yaml:"init_state"`
	Equilibrium EquilibriumConfig `yaml:"equilibrium"`
	Flows       FlowsConfig       `yaml:"flows"`
}

type ConstantsConfig struct {
	ColdTemp  float64 `yaml:"cold_temp"`
	HotTemp   float64 `yaml:"hot_temp"`
	Orifice   float64 `yaml:"orifice"`
	Area      float64 `yaml:"area"`
	Discharge float64 `yaml:"discharge"`
	Gravity   float64 `yaml:"gravity"`
}

type InitStateConfig struct {
	Height float64 `yaml:"height"`
	Temp   float64 `yaml:"temp"`
}

type EquilibriumConfig struct {
	Height float64 `yaml:"height"`
	Temp   float64 `yaml:"temp"`
}

type FlowsConfig struct {
	Cold FlowConfig `yaml:"cold"`
	Hot  FlowConfig `yaml:"hot"`
}

// FlowConfig selects a schedule kind: "constant" uses Rate, "step" uses
// Before up to and including Until, then After.
type FlowConfig struct {
	Kind   string  `yaml:"kind"`
	Rate   float64 `yaml:"rate"`
	Until  int     `yaml:"until"`
	Before float64 `yaml:"before"`
	After  float64 `yaml:"after"`
}

func DefaultConfig() *Config {
	return &Config{
		Steps: DefaultSteps,
		Dt:    DefaultDt,
		Constants: ConstantsConfig{
			ColdTemp:  DefaultColdTemp,
			HotTemp:   DefaultHotTemp,
			Orifice:   DefaultOrifice,
			Area:      DefaultArea,
			Discharge: DefaultDischarge,
			Gravity:   DefaultGravity,
		},
		InitState:   InitStateConfig{Height: DefaultH0, Temp: DefaultT0},
		Equilibrium: EquilibriumConfig{Height: DefaultEqHeight, Temp: DefaultEqTemp},
		Flows: FlowsConfig{
			Cold: FlowConfig{Kind: "step", Until: 25, Before: 0.022, After: 0.043},
			Hot:  FlowConfig{Kind: "step", Until: 60, Before: 0.14, After: 0.105},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Constants.Area <= 0 {
		return fmt.Errorf("tank area must be positive, got %f", c.Constants.Area)
	}
	if c.Constants.HotTemp <= c.Constants.ColdTemp {
		return fmt.Errorf("hot inlet (%f) must be warmer than cold inlet (%f)",
			c.Constants.HotTemp, c.Constants.ColdTemp)
	}
	if c.Equilibrium.Height <= 0 {
		return fmt.Errorf("equilibrium height must be positive, got %f", c.Equilibrium.Height)
	}
	for name, fc := range map[string]FlowConfig{"cold": c.Flows.Cold, "hot": c.Flows.Hot} {
		switch fc.Kind {
		case "constant", "step":
		default:
			return fmt.Errorf("%s flow: unknown kind %q (want constant or step)", name, fc.Kind)
		}
	}
	return nil
}

// Tank builds the model from the configured constants.
func (c *Config) Tank() *tank.Tank {
	return &tank.Tank{
		ColdTemp:  c.Constants.ColdTemp,
		HotTemp:   c.Constants.HotTemp,
		Orifice:   c.Constants.Orifice,
		Area:      c.Constants.Area,
		Discharge: c.Constants.Discharge,
		Gravity:   c.Constants.Gravity,
	}
}

func (fc FlowConfig) schedule() dynamo.FlowSchedule {
	if fc.Kind == "constant" {
		return flows.Constant{Value: fc.Rate}
	}
	return flows.Piecewise{Until: fc.Until, Before: fc.Before, After: fc.After}
}

// FlowPair builds both schedules.
func (c *Config) FlowPair() flows.Pair {
	return flows.Pair{
		Cold: c.Flows.Cold.schedule(),
		Hot:  c.Flows.Hot.schedule(),
	}
}

// SimConfig maps the run parameters onto the simulator config.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Steps:         c.Steps,
		Dt:            c.Dt,
		ValidateState: c.Strict,
	}
}
