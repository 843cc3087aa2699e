package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().CheckValid(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kernel = "naive"
	cfg.Bodies = 123
	cfg.Theta = 0.75
	cfg.Seed = 99

	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("kernel: naive\nbodies: 64\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Kernel != "naive" || cfg.Bodies != 64 {
		t.Errorf("explicit fields lost: %+v", cfg)
	}
	if cfg.Dt != DefaultDt || cfg.Theta != DefaultTheta {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestCheckValid(t *testing.T) {
	mutations := []struct {
		name string
		mod  func(*Config)
	}{
		{"unknown kernel", func(c *Config) { c.Kernel = "magic" }},
		{"negative bodies", func(c *Config) { c.Bodies = -1 }},
		{"zero softening", func(c *Config) { c.E = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"negative theta", func(c *Config) { c.Theta = -0.5 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
	}
	for _, m := range mutations {
		cfg := DefaultConfig()
		m.mod(cfg)
		if err := cfg.CheckValid(); err == nil {
			t.Errorf("%s: expected rejection", m.name)
		}
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q not retrievable", name)
		}
		if err := cfg.CheckValid(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	if GetPreset("no_such_preset") != nil {
		t.Error("unknown preset should return nil")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("two_body")
	a.Bodies = 9999

	b := GetPreset("two_body")
	if b.Bodies == 9999 {
		t.Error("preset mutation leaked into the registry")
	}
}
