package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/lbmkit/lbmkit/internal/analysis"
	"github.com/lbmkit/lbmkit/internal/automation"
	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/export"
	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/optim"
	"github.com/lbmkit/lbmkit/internal/registry"
	"github.com/lbmkit/lbmkit/internal/runner"
	"github.com/lbmkit/lbmkit/internal/stability"
	"github.com/lbmkit/lbmkit/internal/store"
	"github.com/lbmkit/lbmkit/internal/tui"
)

var (
	dataDir    string
	configFile string
	steps      int
	output     int
	validate   bool
	noSave     bool
	kGrid      int
	moment     int

	sweepScheme int
	sweepMoment int
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepSteps  int

	tuneMetric string
	tuneMin    float64
	tuneMax    float64
	tunePoints int

	trials       int
	perturbation float64

	svgOut    string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lbmkit",
		Short: "multiple-relaxation-time lattice Boltzmann lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lbmkit", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scheme",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScheme,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count")
	runCmd.Flags().IntVar(&output, "output", 0, "override snapshot interval")
	runCmd.Flags().BoolVar(&validate, "validate", false, "check for NaN/Inf each step")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in schemes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-12s %dD, %d schemes, %d conserved moments\n",
					name, cfg.Dim, len(cfg.Schemes), cfg.NumConserved())
			}
			return nil
		},
	}

	describeCmd := &cobra.Command{
		Use:   "describe [preset]",
		Short: "print scheme structure",
		Args:  cobra.MaximumNArgs(1),
		RunE:  describeScheme,
	}
	describeCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	stabilityCmd := &cobra.Command{
		Use:   "stability [preset]",
		Short: "linear stability of a scheme",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeStability,
	}
	stabilityCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	stabilityCmd.Flags().IntVar(&kGrid, "grid", 33, "wavenumbers per axis")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot final moment profiles",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&moment, "moment", 0, "conserved moment to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print run snapshots as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print the full run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark a scheme over lattice sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScheme,
	}
	benchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one relaxation parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepScheme, "scheme", 0, "elementary scheme index")
	sweepCmd.Flags().IntVar(&sweepMoment, "moment", 1, "moment index within the scheme")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "smallest relaxation parameter")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.9, "largest relaxation parameter")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 8, "sweep points")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 200, "steps per run")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search a relaxation parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneScheme,
	}
	tuneCmd.Flags().IntVar(&sweepScheme, "scheme", 0, "elementary scheme index")
	tuneCmd.Flags().IntVar(&sweepMoment, "moment", 1, "moment index within the scheme")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "conservation_drift", "metric to minimize")
	tuneCmd.Flags().Float64Var(&tuneMin, "min", 0.5, "smallest relaxation parameter")
	tuneCmd.Flags().Float64Var(&tuneMax, "max", 1.9, "largest relaxation parameter")
	tuneCmd.Flags().IntVar(&tunePoints, "points", 8, "grid points")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "perturbed-initial-condition trials",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&perturbation, "perturbation", 0.2, "relative amplitude perturbation")
	mcCmd.Flags().IntVar(&sweepSteps, "steps", 200, "steps per trial")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render final moment profiles to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "run.svg", "output file")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 300, "height per moment")

	rootCmd.AddCommand(runCmd, presetsCmd, describeCmd, stabilityCmd, listCmd,
		plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, benchCmd, liveCmd,
		scenarioCmd, sweepCmd, tuneCmd, mcCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(args []string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	name := "burgers"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	copied := *cfg
	return &copied, nil
}

func runScheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = output
	}
	if validate {
		cfg.Validate = true
	}

	run, f, err := registry.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%d sites, %d steps)...\n",
		cfg.Name, run.Stepper().Lattice().Sites(), cfg.Steps)
	start := time.Now()

	result, err := run.Run(context.Background(), f, registry.RunConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func describeScheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	sc, err := registry.Compile(cfg)
	if err != nil {
		return err
	}
	fmt.Print(sc.Describe())
	return nil
}

// linearizationPoint averages each initial profile over the lattice,
// the natural base state for a stability scan.
func linearizationPoint(cfg *config.Config) ([]float64, error) {
	run, f, err := registry.NewRegistry().Build(cfg)
	if err != nil {
		return nil, err
	}
	cons := run.Stepper().ConservedField(f)
	point := make([]float64, len(cons))
	for i, vals := range cons {
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		point[i] = sum / float64(len(vals))
	}
	return point, nil
}

func analyzeStability(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	sc, err := registry.Compile(cfg)
	if err != nil {
		return err
	}
	point, err := linearizationPoint(cfg)
	if err != nil {
		return err
	}

	an := stability.New(sc, point)

	fmt.Printf("scheme: %s\n", cfg.Name)
	fmt.Printf("linearized at:")
	for _, v := range point {
		fmt.Printf(" %.6g", v)
	}
	fmt.Println()

	fmt.Printf("monotonic: %v\n", an.IsMonotonic())
	fmt.Printf("l2 stable: %v (%d wavenumbers per axis)\n", an.IsL2Stable(kGrid), kGrid)
	fmt.Printf("max spectral radius: %.6f\n", an.MaxSpectralRadius(kGrid))

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDIM\tPOINTS\tSTEPS\tBOUNDARY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Points,
			run.Steps,
			run.Boundary,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, snapshots, err := st.LoadMoments(runID)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no data to plot")
	}

	last := snapshots[len(snapshots)-1]
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("final time: %.6g\n\n", times[len(times)-1])

	for i, profile := range last {
		graph := asciigraph.Plot(profile,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("conserved moment %d", i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, snapshots, err := st.LoadMoments(runID)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no data")
	}
	if moment >= len(snapshots[0]) {
		return fmt.Errorf("run has %d conserved moments", len(snapshots[0]))
	}

	last := snapshots[len(snapshots)-1][moment]

	fmt.Printf("spectral analysis: %s (moment %d)\n\n", meta.ID, moment)

	ps := analysis.PowerSpectrum(last)
	if len(ps) == 0 {
		return fmt.Errorf("profile too short for spectral analysis")
	}
	graph := asciigraph.Plot(ps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	mode := analysis.DominantMode(last)
	fmt.Printf("dominant mode: %d\n", mode)
	fmt.Printf("total variation: %.6g\n", analysis.TotalVariation(last))

	if mode > 0 && len(snapshots) > 2 {
		amps := analysis.ModeAmplitude(snapshots, moment, mode)
		rate := analysis.DecayRate(times, amps)
		fmt.Printf("mode %d decay rate: %.6g per unit time\n", mode, rate)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	times, snapshots, err := st.LoadMoments(args[0])
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "site"}
	for i := range snapshots[0] {
		header = append(header, fmt.Sprintf("m%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k, snap := range snapshots {
		for site := range snap[0] {
			row := []string{
				strconv.FormatFloat(times[k], 'g', -1, 64),
				strconv.Itoa(site),
			}
			for _, m := range snap {
				row = append(row, strconv.FormatFloat(m[site], 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, snapshots, err := st.LoadMoments(args[0])
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Name: meta.Name, Dim: meta.Dim, Points: meta.Points,
		Dx: meta.Dx, Dt: meta.Dt, Boundary: meta.Boundary,
	}
	result := &runner.Result{
		Times:      times,
		Snapshots:  snapshots,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	return store.ExportJSONStdout(cfg, result)
}

func benchScheme(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(args)
	if err != nil {
		return err
	}

	sizes := []int{64, 128, 256, 512}
	benchSteps := []int{100, 500}

	fmt.Printf("benchmarking %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tSTEPS\tSITES\tTIME\tSITE-UPDATES/SEC")

	for _, size := range sizes {
		for _, n := range benchSteps {
			cfg := *base
			cfg.Points = make([]int, cfg.Dim)
			for i := range cfg.Points {
				cfg.Points[i] = size
			}
			cfg.Steps = n
			cfg.Output = 0
			cfg.Validate = false

			run, f, err := registry.NewRegistry().Build(&cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := run.Run(context.Background(), f, registry.RunConfig(&cfg))
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			sites := run.Stepper().Lattice().Sites()
			updates := float64(sites) * float64(result.StepsTaken)
			fmt.Fprintf(w, "%v\t%d\t%d\t%v\t%.3g\n",
				cfg.Points, result.StepsTaken, sites, elapsed, updates/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	ids, err := automation.RunScenario(context.Background(), scenario, st)
	for _, id := range ids {
		fmt.Printf("stored: %s\n", id)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Preset:   args[0],
		Scheme:   sweepScheme,
		Moment:   sweepMoment,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepPoints,
		RunSteps: sweepSteps,
	}

	results, err := automation.RunSweep(context.Background(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "S\tDRIFT\tIN-RANGE\tTOTAL-VARIATION\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Failed {
			status = "failed"
		}
		fmt.Fprintf(w, "%.4f\t%.3g\t%.2f\t%.6g\t%s\n",
			r.Value, r.Drift, r.InRange, r.TotalVariation, status)
	}
	return w.Flush()
}

func tuneScheme(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if sweepScheme >= len(base.Schemes) || sweepMoment >= len(base.Schemes[sweepScheme].Relaxation) {
		return fmt.Errorf("scheme or moment index out of range")
	}
	if tunePoints < 2 {
		return fmt.Errorf("tune needs at least 2 grid points")
	}

	values := make([]float64, tunePoints)
	for i := range values {
		values[i] = tuneMin + (tuneMax-tuneMin)*float64(i)/float64(tunePoints-1)
	}

	build := func(params map[string]float64) (*runner.Runner, *lattice.Field, runner.Config, error) {
		cfg := *base
		cfg.Schemes = append([]config.SchemeConfig(nil), base.Schemes...)
		sc := cfg.Schemes[sweepScheme]
		sc.Relaxation = append([]float64(nil), sc.Relaxation...)
		sc.Relaxation[sweepMoment] = params["s"]
		cfg.Schemes[sweepScheme] = sc
		cfg.Validate = true

		run, f, err := registry.NewRegistry().Build(&cfg)
		if err != nil {
			return nil, nil, runner.Config{}, err
		}
		return run, f, registry.RunConfig(&cfg), nil
	}

	g := optim.NewGridSearch([]string{"s"}, [][]float64{values})
	bestParams, bestVal, err := g.Search(context.Background(), build, tuneMetric)
	if err != nil {
		return err
	}
	if bestParams == nil {
		return fmt.Errorf("every candidate failed")
	}

	fmt.Printf("best s: %.4f\n", bestParams["s"])
	fmt.Printf("%s: %.6g\n", tuneMetric, bestVal)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	mc := &automation.MonteCarloConfig{
		Preset:       args[0],
		Perturbation: perturbation,
		NumTrials:    trials,
		RunSteps:     sweepSteps,
	}

	results, err := automation.RunMonteCarlo(context.Background(), mc)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	_, snapshots, err := st.LoadMoments(args[0])
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no data to render")
	}

	svg := export.SnapshotSVG(snapshots[len(snapshots)-1], svgWidth, svgHeight)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	m, err := tui.New(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
