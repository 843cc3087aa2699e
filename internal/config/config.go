package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBodies = 1024
	DefaultG      = 1.0
	DefaultE      = 0.01
	DefaultDt     = 0.01
	DefaultTheta  = 0.5
	DefaultSteps  = 1000
)

type Config struct {
	Kernel string  `yaml:"kernel"` // "naive" or "tree"
	Bodies int     `yaml:"bodies"`
	G      float32 `yaml:"g"`
	E      float32 `yaml:"e"` // softening, must stay positive
	Dt     float32 `yaml:"dt"`
	Theta  float32 `yaml:"theta"` // tree kernel only
	Steps  int     `yaml:"steps"`
	Init   string  `yaml:"init"` // initial condition generator
	Seed   int64   `yaml:"seed"`
	// TreeRebuildEvery amortizes hierarchy construction over several steps.
	TreeRebuildEvery int `yaml:"tree_rebuild_every"`
	// Validate aborts a run on NaN/Inf state.
	Validate bool `yaml:"validate"`
}

func DefaultConfig() *Config {
	return &Config{
		Kernel:           "tree",
		Bodies:           DefaultBodies,
		G:                DefaultG,
		E:                DefaultE,
		Dt:               DefaultDt,
		Theta:            DefaultTheta,
		Steps:            DefaultSteps,
		Init:             "uniform",
		TreeRebuildEvery: 1,
		Validate:         true,
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
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate catches parameters that the kernels cannot signal about
// themselves: a non-positive softening or timestep turns into silent NaN
// corruption downstream, so it must be rejected before the first dispatch.
func (c *Config) CheckValid() error {
	if c.Kernel != "naive" && c.Kernel != "tree" {
		return fmt.Errorf("unknown kernel %q (want naive or tree)", c.Kernel)
	}
	if c.Bodies < 0 {
		return fmt.Errorf("bodies must be non-negative, got %d", c.Bodies)
	}
	if c.E <= 0 {
		return fmt.Errorf("softening e must be positive, got %v", c.E)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if c.Theta < 0 {
		return fmt.Errorf("theta must be non-negative, got %v", c.Theta)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	return nil
}
