package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/gui"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	// Simulation flags override the config file, which overrides the preset.
	preset      string
	configFile  string
	count       int
	squareSize  float64
	gravity     float64
	damping     float64
	seed        int64
	workers     int
	frames      int
	dt          float64
	clockName   string
	jitter      float64
	maxDelta    float64
	sampleEvery int

	runName     string
	liveFPS     int
	benchFrames int
	particle    int
	showPhase   bool

	svgOut     string
	svgWidth   int
	svgHeight  int
	svgFrame   int
	svgBraille bool
	svgTrail   int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	mcTrials int
	mcSpread float64
	mcSeed   int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "particles bouncing in a box",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			gui.RunInteractive()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the sampled frames",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot heights over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", 0, "particle to plot next to the mean")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce frequency and apex analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&particle, "particle", 0, "particle index, negative for the mean height")
	analyzeCmd.Flags().BoolVar(&showPhase, "phase", false, "print the height/velocity phase portrait")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export sampled frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "write one frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (stdout when empty)")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 600, "image width")
	snapshotCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	snapshotCmd.Flags().IntVar(&svgFrame, "frame", -1, "sample index, negative counts from the end")
	snapshotCmd.Flags().BoolVar(&svgBraille, "braille", false, "render through the 3D braille canvas")
	snapshotCmd.Flags().IntVar(&svgTrail, "trajectory", -1, "draw the phase portrait of this particle instead")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput",
		Args:  cobra.NoArgs,
		RunE:  benchSystem,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 200, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the system in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&liveFPS, "fps", 30, "frame rate")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a preset in the terminal and watch it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "watch the system in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames to websocket clients",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&serveFPS, "fps", 60, "frame rate")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of presets",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and compare runs",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "collision_damping", fmt.Sprintf("parameter to vary %v", automation.SweepParams))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run perturbed trials and check containment",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(mcCmd)
	mcCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&mcSpread, "spread", 0.1, "relative perturbation of gravity and damping")
	mcCmd.Flags().Int64Var(&mcSeed, "trial-seed", 0, "seed of the first trial (0 picks one)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, snapshotCmd,
		benchCmd, presetsCmd, liveCmd, tuiCmd, guiCmd, serveCmd, scenarioCmd, sweepCmd, mcCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		Prefix:          "partsim",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "default", "preset to start from")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.IntVar(&count, "count", physics.DefaultCount, "number of particles")
	f.Float64Var(&squareSize, "size", physics.DefaultSquareSize, "box edge length")
	f.Float64Var(&gravity, "gravity", physics.DefaultGravity, "gravity along -y")
	f.Float64Var(&damping, "damping", physics.DefaultCollisionDamping, "wall collision damping in (0, 1]")
	f.Int64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.IntVar(&workers, "workers", 1, "parallel step workers")
	f.IntVar(&frames, "frames", config.DefaultFrames, "steps to run")
	f.Float64Var(&dt, "dt", config.DefaultDt, "step delta for fixed and jitter clocks")
	f.StringVar(&clockName, "clock", config.DefaultClock, "clock (fixed, jitter, wall)")
	f.Float64Var(&jitter, "jitter", 0, "jitter clock spread")
	f.Float64Var(&maxDelta, "max-delta", config.DefaultMaxDelta, "clamp for clock deltas")
	f.IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every nth frame")
}

// resolveConfig layers flags over the config file over the preset.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("size") {
		cfg.SquareSize = float32(squareSize)
	}
	if flags.Changed("gravity") {
		cfg.Gravity = float32(gravity)
	}
	if flags.Changed("damping") {
		cfg.CollisionDamping = float32(damping)
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.Dt = float32(dt)
	}
	if flags.Changed("clock") {
		cfg.Clock = clockName
	}
	if flags.Changed("jitter") {
		cfg.Jitter = float32(jitter)
	}
	if flags.Changed("max-delta") {
		cfg.MaxDelta = float32(maxDelta)
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSystem builds the particle system and its clock for the viewers.
func newSystem(cfg *config.Config) (*physics.ParticleSystem, dynamo.Clock, error) {
	sys, err := physics.NewFromParams(cfg.Params(), cfg.Options()...)
	if err != nil {
		return nil, nil, err
	}
	clock, err := experiment.NewRegistry().GetClock(cfg.Clock, cfg)
	if err != nil {
		return nil, nil, err
	}
	return sys, clock, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = preset
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	logger.Info("running", "name", name, "particles", cfg.Count, "frames", cfg.Frames, "clock", cfg.Clock)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		logger.Warn("simulation error", "err", e)
	}

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}
	logger.Debug("saved", "dir", dataDir, "id", runID)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  samples: %d  simulated: %.2fs\n", result.StepsTaken, len(result.Frames), result.Duration)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tSTEPS\tDURATION\tSEED")

	for _, run := range runs {
		particles := 0
		if run.Config != nil {
			particles = run.Config.Count
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			particles,
			run.Steps,
			run.Duration,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		index   int
		caption string
	}{
		{-1, "mean height"},
		{particle, fmt.Sprintf("particle %d height", particle)},
	}
	for _, s := range series {
		if s.index >= frames[0].Count() {
			continue
		}
		graph := asciigraph.Plot(analysis.HeightSeries(frames, s.index),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 || frames[0].Count() == 0 {
		return fmt.Errorf("no data")
	}
	if particle >= frames[0].Count() {
		return fmt.Errorf("particle %d out of range, run has %d", particle, frames[0].Count())
	}

	span := times[len(times)-1] - times[0]
	if span <= 0 {
		return fmt.Errorf("run %s has no elapsed time", runID)
	}
	rate := float64(len(times)-1) / span

	fmt.Printf("bounce analysis: %s\n", meta.ID)
	fmt.Printf("samples: %d at %.1f hz\n\n", len(frames), rate)

	heights := analysis.HeightSeries(frames, particle)
	spec := analysis.PowerSpectrum(heights, rate)

	if len(spec.Power) > 2 {
		plotData := spec.Power[1:]
		if len(plotData) > 80 {
			plotData = plotData[:len(plotData)/4]
		}
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (height)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq := spec.DominantFrequency()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if particle >= 0 {
		apexes := analysis.ApexHeights(frames, particle)
		if len(apexes) > 0 {
			fmt.Printf("\napex heights (%d):", len(apexes))
			for i, a := range apexes {
				if i == 8 {
					fmt.Print(" ...")
					break
				}
				fmt.Printf(" %.3f", a)
			}
			fmt.Println()
		}
		if len(apexes) > 1 && apexes[0] > 0 {
			// apex height scales with damping squared per floor bounce
			fmt.Printf("apex ratio: %.3f\n", apexes[1]/apexes[0])
		}

		if showPhase {
			portrait := analysis.GeneratePhasePortrait(frames, times, particle)
			fmt.Printf("\nphase portrait (y, vy) particle %d\n", particle)
			fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))
		}
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "version"}
	for i := 0; i < frames[0].Count(); i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, f := range frames {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatUint(f.Version, 10),
		}
		for _, val := range f.Positions {
			row = append(row, strconv.FormatFloat(float64(val), 'f', 6, 32))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportRun(os.Stdout, args[0])
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	if svgTrail >= 0 {
		portrait := analysis.GeneratePhasePortrait(frames, times, svgTrail)
		if portrait == nil {
			return fmt.Errorf("no phase portrait for particle %d", svgTrail)
		}
		return writeSVG(export.TrajectoryToSVG(portrait.Points, svgWidth, svgHeight, "#00cccc"), "trajectory", svgTrail, 0)
	}

	idx := svgFrame
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range, run has %d samples", svgFrame, len(frames))
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	box := cfg.Params().Bounds()

	var svg string
	if svgBraille {
		canvas := viz.NewCanvas(svgWidth/8, svgHeight/16)
		cam := viz.CameraFor(box, 60)
		cam.Settle()
		viz.RenderFrame(canvas, cam, box, frames[idx].Positions)
		svg = export.CanvasToSVG(canvas, 4)
	} else {
		svg = export.FrameToSVG(frames[idx], box, svgWidth, svgHeight, 2)
	}

	return writeSVG(svg, "frame", idx, frames[idx].Version)
}

func writeSVG(svg, kind string, index int, version uint64) error {
	if svgOut == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote snapshot", "file", svgOut, kind, index, "version", version)
	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	counts := []int{1000, 10000, 100000}
	workerSets := []int{1, runtime.NumCPU()}
	if workerSets[1] == 1 {
		workerSets = workerSets[:1]
	}

	fmt.Printf("benchmarking %d steps per run\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC\tPARTICLES/SEC")

	for _, n := range counts {
		for _, wk := range workerSets {
			opts := []physics.Option{physics.WithSeed(42)}
			if wk > 1 {
				opts = append(opts, physics.WithWorkers(wk))
			}
			sys := physics.New(n, physics.DefaultSquareSize, physics.DefaultGravity, physics.DefaultCollisionDamping, opts...)

			runCfg := sim.DefaultConfig()
			runCfg.Frames = benchFrames
			runCfg.SampleEvery = max(benchFrames, 1)
			runCfg.ValidateState = false

			start := time.Now()
			result, err := sim.New(sys, sim.Fixed(config.DefaultDt)).Run(context.Background(), runCfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			result.Release()

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.3g\n",
				n, wk, result.StepsTaken, elapsed.Round(time.Microsecond), stepsPerSec, stepsPerSec*float64(n))
		}
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tSIZE\tGRAVITY\tDAMPING\tFRAMES\tWORKERS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%d\t%d\n",
			name, p.Count, p.SquareSize, p.Gravity, p.CollisionDamping, p.Frames, p.Workers)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sys, clock, err := newSystem(cfg)
	if err != nil {
		return err
	}

	return viz.Run(sys, clock, viz.LiveConfig{
		Title:     preset,
		MaxDelta:  cfg.MaxDelta,
		FrameRate: liveFPS,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sys, clock, err := newSystem(cfg)
	if err != nil {
		return err
	}

	// spheres shrink as the box gets crowded
	radius := cfg.SquareSize / 100
	if cfg.Count > 10000 {
		radius /= 2
	}
	gui.Run(sys, clock, gui.Options{Title: preset, MaxDelta: cfg.MaxDelta, Radius: radius})
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tFRAMES\tENERGY_LOSS\tBOUNCES\tCONTAINMENT\tRUN")
	for i, r := range results {
		runID := "-"
		if r.Step.SaveAs != "" {
			if err := st.Init(); err != nil {
				return err
			}
			runID, err = st.Save(r.Step.SaveAs, r.Config, r.Result)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4f\t%.0f\t%.3f\t%s\n",
			i+1,
			r.Step.Preset,
			r.Result.StepsTaken,
			r.Result.Metrics["energy_loss"],
			r.Result.Metrics["bounces"],
			r.Result.Metrics["containment"],
			runID,
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      base,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY_LOSS\tBOUNCES\tMEAN_HEIGHT\tCONTAINMENT\n", strings.ToUpper(sweepParam))
	loss := make([]float64, len(results))
	for i, r := range results {
		loss[i] = r.EnergyLoss
		fmt.Fprintf(w, "%.4f\t%.4f\t%.0f\t%.3f\t%.3f\n", r.ParamValue, r.EnergyLoss, r.Bounces, r.MeanHeight, r.Containment)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(loss) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(loss,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("energy loss vs "+sweepParam),
		))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         base,
		NumTrials:    mcTrials,
		Perturbation: mcSpread,
		Seed:         mcSeed,
	}, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tGRAVITY\tDAMPING\tENERGY_LOSS\tBOUNCES\tCONTAINED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%.3f\t%.4f\t%.0f\t%t\n",
			r.TrialID, r.Seed, r.Gravity, r.CollisionDamping, r.EnergyLoss, r.Bounces, r.Contained)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	contained, escaped := automation.MonteCarloStats(results)
	fmt.Printf("\ncontained: %d  escaped: %d\n", contained, escaped)
	if escaped > 0 {
		return fmt.Errorf("%d of %d trials left the box", escaped, len(results))
	}
	return nil
}
