package config

// Presets are the four reference scenarios: the worked mixing case, two
// larger perturbations of it, and the equilibrium point held at its own
// (rounded) steady-state flows.
var Presets = map[string]*Config{
	"mixing":    scenario(1.1, 81.5),
	"high-cool": scenario(1.5, 65.0),
	"low-hot":   scenario(0.5, 95.0),
	"equilibrium": func() *Config {
		cfg := DefaultConfig()
		cfg.InitState = InitStateConfig{Height: 1.0, Temp: 75.0}
		cfg.Flows = FlowsConfig{
			Cold: FlowConfig{Kind: "constant", Rate: 0.029},
			Hot:  FlowConfig{Kind: "constant", Rate: 0.126},
		}
		return cfg
	}(),
}

func scenario(h0, t0 float64) *Config {
	cfg := DefaultConfig()
	cfg.InitState = InitStateConfig{Height: h0, Temp: t0}
	return cfg
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
