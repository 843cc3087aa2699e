package config

// Presets are ready-made configurations for the bundled scenarios.
var presets = map[string]*Config{
	"two_body": {
		Kernel: "naive", Bodies: 2, G: 1.0, E: 0.01, Dt: 0.01,
		Theta: 0.5, Steps: 2000, Init: "two_body", TreeRebuildEvery: 1, Validate: true,
	},
	"disc": {
		Kernel: "tree", Bodies: 4096, G: 0.000001, E: 0.01, Dt: 0.01,
		Theta: 0.75, Steps: 5000, Init: "disc", TreeRebuildEvery: 1, Validate: true,
	},
	"uniform": {
		Kernel: "tree", Bodies: 8192, G: 0.000001, E: 0.01, Dt: 0.01,
		Theta: 0.5, Steps: 2000, Init: "uniform", TreeRebuildEvery: 1, Validate: true,
	},
	"cluster": {
		Kernel: "tree", Bodies: 2048, G: 0.00001, E: 0.02, Dt: 0.005,
		Theta: 0.5, Steps: 4000, Init: "cluster", TreeRebuildEvery: 2, Validate: true,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
