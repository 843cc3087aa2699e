package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kernel    string             `json:"kernel"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Bodies    int                `json:"bodies"`
	G         float32            `json:"g"`
	E         float32            `json:"e"`
	Dt        float32            `json:"dt"`
	Theta     float32            `json:"theta"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a completed run: metadata.json, the energy series, and the
// final particle snapshot.
func (s *Store) Save(meta RunMetadata, res *sim.Result, final []body.Particle) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Kernel, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = res.StepsTaken
	meta.Metrics = res.Metrics

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeEnergyCSV(filepath.Join(runDir, "energy.csv"), res); err != nil {
		return "", err
	}
	if err := writeParticlesCSV(filepath.Join(runDir, "particles.csv"), final); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMeta(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) LoadMeta(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// LoadEnergy reads back the time and energy series of a stored run.
func (s *Store) LoadEnergy(runID string) (times, energy []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "energy.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue // header
		}
		t, err1 := strconv.ParseFloat(rec[0], 64)
		e, err2 := strconv.ParseFloat(rec[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		times = append(times, t)
		energy = append(energy, e)
	}
	return times, energy, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergyCSV(path string, res *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "energy"}); err != nil {
		return err
	}
	for i := range res.Times {
		rec := []string{
			strconv.FormatFloat(res.Times[i], 'g', -1, 64),
			strconv.FormatFloat(res.Energy[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeParticlesCSV(path string, ps []body.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"px", "py", "pz", "vx", "vy", "vz", "ax", "ay", "az", "mass"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range ps {
		p := &ps[i]
		rec := make([]string, 0, 10)
		for _, v := range []float32{
			p.Pos.X, p.Pos.Y, p.Pos.Z,
			p.Vel.X, p.Vel.Y, p.Vel.Z,
			p.Acc.X, p.Acc.Y, p.Acc.Z,
			p.Mass,
		} {
			rec = append(rec, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
