package storage

import (
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

func sampleRun() (RunMetadata, *sim.Result, []body.Particle) {
	meta := RunMetadata{
		Kernel: "naive",
		Seed:   7,
		Bodies: 2,
		G:      1, E: 0.01, Dt: 0.01, Theta: 0.5,
	}
	res := &sim.Result{
		Times:      []float64{0, 0.01, 0.02},
		Energy:     []float64{-0.82, -0.821, -0.822},
		Metrics:    map[string]float64{"momentum_drift": 1e-7},
		StepsTaken: 2,
	}
	final := []body.Particle{
		{Pos: body.Vec3{X: 0.1}, Vel: body.Vec3{X: 0.01}, Mass: 1},
		{Pos: body.Vec3{X: 0.9}, Vel: body.Vec3{X: -0.01}, Mass: 1},
	}
	return meta, res, final
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	meta, res, final := sampleRun()
	runID, err := s.Save(meta, res, final)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	loaded, err := s.LoadMeta(runID)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if loaded.ID != runID || loaded.Kernel != "naive" || loaded.Seed != 7 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Steps != res.StepsTaken {
		t.Errorf("steps = %d, want %d", loaded.Steps, res.StepsTaken)
	}
	if loaded.Metrics["momentum_drift"] != 1e-7 {
		t.Errorf("metrics not persisted: %+v", loaded.Metrics)
	}

	times, energy, err := s.LoadEnergy(runID)
	if err != nil {
		t.Fatalf("load energy: %v", err)
	}
	if len(times) != len(res.Times) || len(energy) != len(res.Energy) {
		t.Fatalf("series lengths %d/%d, want %d", len(times), len(energy), len(res.Times))
	}
	for i := range times {
		if times[i] != res.Times[i] || energy[i] != res.Energy[i] {
			t.Errorf("row %d: (%g, %g), want (%g, %g)",
				i, times[i], energy[i], res.Times[i], res.Energy[i])
		}
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("empty store listed %d runs", len(runs))
	}

	meta, res, final := sampleRun()
	if _, err := s.Save(meta, res, final); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	s := New(t.TempDir() + "/never_created")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("missing base dir should not error: %v", err)
	}
	if runs != nil {
		t.Errorf("expected no runs, got %v", runs)
	}
}
