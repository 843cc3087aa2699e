package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dispatch"
	"github.com/san-kum/gravsim/internal/force"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/inits"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir    string
	kernel     string
	bodies     int
	g          float32
	e          float32
	dt         float32
	theta      float32
	steps      int
	initName   string
	seed       int64
	configFile string
	preset     string
	backend    string
	rebuild    int
	noValidate bool
	frameRate  int
	extent     float64
	useGPU     bool
	useAudio   bool
	svgOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "parallel gravitational n-body simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&backend, "backend", "auto", "compute backend for the naive kernel (auto|cpu)")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write an SVG snapshot of the final state")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second")
	liveCmd.Flags().Float64Var(&extent, "extent", 1.5, "view half-width in world units")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run with a raylib window",
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().BoolVar(&useGPU, "gpu", false, "step the naive kernel on the OpenGL compute backend")
	guiCmd.Flags().BoolVar(&useAudio, "audio", false, "sonify total energy")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark both kernels",
		RunE:  benchKernels,
	}
	addSimFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy history of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plot as an SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, benchCmd, listCmd, plotCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&kernel, "kernel", "tree", "force kernel (naive|tree)")
	cmd.Flags().IntVar(&bodies, "bodies", config.DefaultBodies, "number of bodies")
	cmd.Flags().Float32Var(&g, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float32Var(&e, "e", config.DefaultE, "softening term (must be positive)")
	cmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float32Var(&theta, "theta", config.DefaultTheta, "opening-angle threshold (tree)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&initName, "init", "uniform", "initial conditions (uniform|disc|two_body|cluster)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration")
	cmd.Flags().IntVar(&rebuild, "rebuild-every", 1, "hierarchy rebuild cadence in steps (tree)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip NaN/Inf state validation")
}

// buildConfig merges preset < config file < flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := func(name string, fn func()) {
		if cmd.Flags().Changed(name) {
			fn()
		}
	}
	set("kernel", func() { cfg.Kernel = kernel })
	set("bodies", func() { cfg.Bodies = bodies })
	set("g", func() { cfg.G = g })
	set("e", func() { cfg.E = e })
	set("dt", func() { cfg.Dt = dt })
	set("theta", func() { cfg.Theta = theta })
	set("steps", func() { cfg.Steps = steps })
	set("init", func() { cfg.Init = initName })
	set("rebuild-every", func() { cfg.TreeRebuildEvery = rebuild })
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if noValidate {
		cfg.Validate = false
	}

	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, error) {
	gen, err := inits.Get(cfg.Init)
	if err != nil {
		return nil, err
	}
	particles := gen(cfg.Bodies, cfg.Seed)

	params := force.SimParams{
		N:  uint32(len(particles)),
		G:  cfg.G,
		E:  cfg.E,
		Dt: cfg.Dt,
	}

	var k force.Kernel
	switch cfg.Kernel {
	case "naive":
		k = force.NewNaive(params)
	case "tree":
		k = force.NewBarnesHut(params, force.TreeParams{Theta: cfg.Theta})
	default:
		return nil, fmt.Errorf("unknown kernel %q", cfg.Kernel)
	}

	s := sim.New(k, dispatch.NewGrid(), particles, params)
	s.AddMetric(metrics.NewEnergyDrift(cfg.G, cfg.E))
	s.AddMetric(metrics.NewMomentumDrift())
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	if cfg.Kernel == "naive" && backend == "auto" {
		s.SetBackend(compute.GetBackend())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := s.Run(ctx, sim.Config{
		Steps:            cfg.Steps,
		ValidateState:    cfg.Validate,
		TreeRebuildEvery: cfg.TreeRebuildEvery,
	})
	elapsed := time.Since(start)
	if err != nil && res == nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Kernel: cfg.Kernel,
		Seed:   cfg.Seed,
		Bodies: cfg.Bodies,
		G:      cfg.G,
		E:      cfg.E,
		Dt:     cfg.Dt,
		Theta:  cfg.Theta,
	}, res, s.Particles())
	if err != nil {
		return err
	}

	if svgOut != "" {
		snap := viz.Scatter(s.Particles(), 96, 48)
		if err := os.WriteFile(svgOut, []byte(snap.SVG(6)), 0644); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintf(w, "kernel\t%s\n", cfg.Kernel)
	fmt.Fprintf(w, "bodies\t%d\n", cfg.Bodies)
	fmt.Fprintf(w, "steps\t%d\n", res.StepsTaken)
	fmt.Fprintf(w, "wall time\t%s\n", elapsed.Round(time.Millisecond))
	for name, v := range res.Metrics {
		fmt.Fprintf(w, "%s\t%.3e\n", name, v)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "error\t%v\n", e)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	return viz.Run(s, cfg.Kernel, extent, frameRate)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	app := gui.New(s, cfg.Kernel)
	app.UseGPU = useGPU
	app.UseAudio = useAudio
	return app.Run()
}

func benchKernels(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "kernel\tbodies\tsteps\ttotal\tper step")
	for _, k := range []string{"naive", "tree"} {
		benchCfg := *cfg
		benchCfg.Kernel = k
		s, err := buildSimulator(&benchCfg)
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := s.Run(context.Background(), sim.Config{
			Steps:            cfg.Steps,
			TreeRebuildEvery: cfg.TreeRebuildEvery,
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		perStep := time.Duration(0)
		if res.StepsTaken > 0 {
			perStep = elapsed / time.Duration(res.StepsTaken)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			k, cfg.Bodies, res.StepsTaken, elapsed.Round(time.Millisecond), perStep)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tkernel\tbodies\tsteps\ttimestamp")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Kernel, r.Bodies, r.Steps, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, energy, err := storage.New(dataDir).LoadEnergy(args[0])
	if err != nil {
		return err
	}
	if len(energy) < 2 {
		return fmt.Errorf("run %s has no energy history", args[0])
	}
	fmt.Println(asciigraph.Plot(energy, asciigraph.Height(16), asciigraph.Caption("total energy")))

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(viz.SeriesSVG(energy, 640, 240)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	times, energy, err := storage.New(dataDir).LoadEnergy(args[0])
	if err != nil {
		return err
	}
	if len(times) < 4 {
		return fmt.Errorf("run %s is too short to analyze", args[0])
	}
	sampleDt := times[1] - times[0]

	freq, power := analysis.DominantFrequency(energy, sampleDt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", len(energy))
	fmt.Fprintf(w, "dominant frequency\t%.5f (sim time^-1)\n", freq)
	fmt.Fprintf(w, "spectral power\t%.4g\n", power)
	return w.Flush()
}
