package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tanklab/internal/analysis"
	"github.com/san-kum/tanklab/internal/config"
	"github.com/san-kum/tanklab/internal/dynamo"
	"github.com/san-kum/tanklab/internal/export"
	"github.com/san-kum/tanklab/internal/integrators"
	"github.com/san-kum/tanklab/internal/linearize"
	"github.com/san-kum/tanklab/internal/metrics"
	"github.com/san-kum/tanklab/internal/sim"
	"github.com/san-kum/tanklab/internal/storage"
	"github.com/san-kum/tanklab/internal/viz"
)

var (
	dataDir    string
	steps      int
	dt         float64
	h0         float64
	t0         float64
	eqHeight   float64
	eqTemp     float64
	preset     string
	configFile string
	trace      bool
	strict     bool
	frameRate  int
	outDir     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tanklab",
		Short: "jacobian linearization accuracy lab for a water mixing tank",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tanklab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [nonlinear|linear]",
		Short: "run one simulator",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run both simulators under identical inputs and compare",
		RunE:  runCompare,
	}
	addScenarioFlags(compareCmd)
	compareCmd.Flags().BoolVar(&trace, "trace", false, "print per-step state")

	compareAllCmd := &cobra.Command{
		Use:   "compare-all",
		Short: "run every preset scenario concurrently and summarize",
		RunE:  runCompareAll,
	}

	compareIntegratorsCmd := &cobra.Command{
		Use:   "compare-integrators",
		Short: "run the tank under Euler and RK4 and compare the steppers",
		RunE:  runCompareIntegrators,
	}
	addScenarioFlags(compareIntegratorsCmd)

	linearizeCmd := &cobra.Command{
		Use:   "linearize",
		Short: "print the linear model at the equilibrium point",
		RunE:  runLinearize,
	}
	addScenarioFlags(linearizeCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the comparison with live visualization",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored comparison run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	pngCmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "export a stored run to PNG charts",
		Args:  cobra.ExactArgs(1),
		RunE:  pngRun,
	}
	pngCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, p := range names {
				fmt.Println(p)
			}
			return nil
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(runCmd, compareCmd, compareAllCmd, compareIntegratorsCmd, linearizeCmd, liveCmd, plotCmd, pngCmd, listCmd, presetsCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of integration steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&h0, "h0", config.DefaultH0, "initial water height")
	cmd.Flags().Float64Var(&t0, "t0", config.DefaultT0, "initial water temperature")
	cmd.Flags().Float64Var(&eqHeight, "he", config.DefaultEqHeight, "equilibrium height")
	cmd.Flags().Float64Var(&eqTemp, "te", config.DefaultEqTemp, "equilibrium temperature")
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop the run when the state goes NaN/Inf")
}

// buildConfig resolves precedence: config file, then preset, then
// defaults, with changed flags overriding in every case.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		cp := *p
		cfg = &cp
	default:
		cfg = config.DefaultConfig()
	}

	flagOverrides := map[string]func(){
		"steps":  func() { cfg.Steps = steps },
		"dt":     func() { cfg.Dt = dt },
		"h0":     func() { cfg.InitState.Height = h0 },
		"t0":     func() { cfg.InitState.Temp = t0 },
		"he":     func() { cfg.Equilibrium.Height = eqHeight },
		"te":     func() { cfg.Equilibrium.Temp = eqTemp },
		"strict": func() { cfg.Strict = strict },
	}
	for name, apply := range flagOverrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	kind := args[0]

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tk := cfg.Tank()
	var dyn dynamo.System = tk
	x0 := dynamo.State{cfg.InitState.Height, cfg.InitState.Temp}

	var lin *linearize.Linearization
	switch kind {
	case "nonlinear":
	case "linear":
		lin = linearize.About(tk, cfg.Equilibrium.Height, cfg.Equilibrium.Temp)
		model := linearize.NewModel(lin)
		dyn = model
		x0 = model.Shift(x0)
	default:
		return fmt.Errorf("unknown simulator: %s (want nonlinear or linear)", kind)
	}

	s := sim.New(dyn, integrators.NewEuler(), cfg.FlowPair())
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewSpan("height_span", 0))
	s.AddMetric(metrics.NewSpan("temp_span", 1))

	result, err := s.Run(context.Background(), x0, cfg.SimConfig())
	if err != nil {
		return err
	}
	for _, runErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", runErr)
	}

	if kind == "linear" {
		model := linearize.NewModel(lin)
		for i, x := range result.States {
			result.States[i] = model.Unshift(x)
		}
	}

	printSeries(result.Trajectory(0), fmt.Sprintf("%s water height (m)", kind))
	printSeries(result.Trajectory(1), fmt.Sprintf("%s water temp (deg)", kind))

	fmt.Println("metrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tk := cfg.Tank()
	lin := linearize.About(tk, cfg.Equilibrium.Height, cfg.Equilibrium.Temp)
	ctx := context.Background()

	var obs []dynamo.Observer
	if trace {
		obs = append(obs, sim.Trace{W: os.Stdout})
	}

	fl := cfg.FlowPair()
	actual, _, err := sim.Nonlinear(ctx, tk, fl, cfg.InitState.Height, cfg.InitState.Temp, cfg.SimConfig(), obs...)
	if err != nil {
		return err
	}
	approx, _, err := sim.Linear(ctx, lin, fl, cfg.InitState.Height, cfg.InitState.Temp, cfg.SimConfig())
	if err != nil {
		return err
	}

	cmp := sim.Comparison{
		Scenario: sim.Scenario{
			Name:   scenarioName(),
			Flows:  fl,
			Height: cfg.InitState.Height,
			Temp:   cfg.InitState.Temp,
		},
		Nonlinear: actual,
		Linear:    approx,
	}

	printOverlay(actual.Heights, approx.Heights, "water height: actual vs linear (m)")
	printOverlay(actual.Temps, approx.Temps, "water temp: actual vs linear (deg)")

	heightDiv := analysis.Compare(actual.Heights, approx.Heights)
	tempDiv := analysis.Compare(actual.Temps, approx.Temps)
	fmt.Printf("height divergence: rms=%.6f max=%.6f (step %d) final=%.6f\n",
		heightDiv.RMS, heightDiv.Max, heightDiv.MaxStep, heightDiv.Final)
	fmt.Printf("temp divergence:   rms=%.6f max=%.6f (step %d) final=%.6f\n",
		tempDiv.RMS, tempDiv.Max, tempDiv.MaxStep, tempDiv.Final)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scenario: cmp.Scenario.Name,
		Steps:    cfg.Steps,
		Dt:       cfg.Dt,
		InitH:    cfg.InitState.Height,
		InitT:    cfg.InitState.Temp,
		EqH:      cfg.Equilibrium.Height,
		EqT:      cfg.Equilibrium.Temp,
		Metrics: map[string]float64{
			"height_rms": heightDiv.RMS,
			"height_max": heightDiv.Max,
			"temp_rms":   tempDiv.RMS,
			"temp_max":   tempDiv.Max,
		},
	}, cmp)
	if err != nil {
		return err
	}

	fmt.Printf("saved run: %s\n", runID)
	return nil
}

func runCompareAll(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	// All presets share the default constants and equilibrium point, so
	// one linearization serves every scenario.
	base := config.DefaultConfig()
	tk := base.Tank()
	lin := linearize.About(tk, base.Equilibrium.Height, base.Equilibrium.Temp)

	scenarios := make([]sim.Scenario, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		scenarios = append(scenarios, sim.Scenario{
			Name:   name,
			Flows:  p.FlowPair(),
			Height: p.InitState.Height,
			Temp:   p.InitState.Temp,
		})
	}

	results, err := sim.NewBatch(tk, lin).Run(context.Background(), scenarios, base.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tINIT\tHEIGHT RMS\tHEIGHT MAX\tTEMP RMS\tTEMP MAX")
	for _, cmp := range results {
		heightDiv := analysis.Compare(cmp.Nonlinear.Heights, cmp.Linear.Heights)
		tempDiv := analysis.Compare(cmp.Nonlinear.Temps, cmp.Linear.Temps)
		fmt.Fprintf(w, "%s\t(%.2f, %.1f)\t%.6f\t%.6f\t%.6f\t%.6f\n",
			cmp.Scenario.Name, cmp.Scenario.Height, cmp.Scenario.Temp,
			heightDiv.RMS, heightDiv.Max, tempDiv.RMS, tempDiv.Max)
	}
	return w.Flush()
}

func runCompareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tk := cfg.Tank()
	fl := cfg.FlowPair()
	ctx := context.Background()

	euler, _, err := sim.NonlinearWith(ctx, tk, integrators.NewEuler(), fl, cfg.InitState.Height, cfg.InitState.Temp, cfg.SimConfig())
	if err != nil {
		return err
	}
	rk4, _, err := sim.NonlinearWith(ctx, tk, integrators.NewRK4(), fl, cfg.InitState.Height, cfg.InitState.Temp, cfg.SimConfig())
	if err != nil {
		return err
	}

	printOverlay(rk4.Heights, euler.Heights, "water height: rk4 vs euler (m)")
	printOverlay(rk4.Temps, euler.Temps, "water temp: rk4 vs euler (deg)")

	heightDiv := analysis.Compare(rk4.Heights, euler.Heights)
	tempDiv := analysis.Compare(rk4.Temps, euler.Temps)
	fmt.Printf("euler vs rk4, height: rms=%.6f max=%.6f (step %d) final=%.6f\n",
		heightDiv.RMS, heightDiv.Max, heightDiv.MaxStep, heightDiv.Final)
	fmt.Printf("euler vs rk4, temp:   rms=%.6f max=%.6f (step %d) final=%.6f\n",
		tempDiv.RMS, tempDiv.Max, tempDiv.MaxStep, tempDiv.Final)
	return nil
}

func scenarioName() string {
	if preset != "" {
		return preset
	}
	return "custom"
}

func runLinearize(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tk := cfg.Tank()
	lin := linearize.About(tk, cfg.Equilibrium.Height, cfg.Equilibrium.Temp)

	fmt.Printf("operating point: h=%.4f T=%.4f\n", lin.Height, lin.Temp)
	fmt.Printf("equilibrium flows: qC=%.6f qH=%.6f\n\n", lin.ColdEq, lin.HotEq)
	fmt.Printf("A =\n%v\n\n", mat.Formatted(lin.A, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("B =\n%v\n\n", mat.Formatted(lin.B, mat.Prefix("    "), mat.Squeeze()))

	fmt.Print("eigenvalues:")
	for _, ev := range lin.Eigenvalues() {
		fmt.Printf(" %.6f%+.6fi", real(ev), imag(ev))
	}
	fmt.Printf("\nstable: %v\n", lin.Stable())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tk := cfg.Tank()
	lin := linearize.About(tk, cfg.Equilibrium.Height, cfg.Equilibrium.Temp)
	return viz.Run(tk, lin, cfg.FlowPair(), cfg.InitState.Height, cfg.InitState.Temp, cfg.SimConfig(), frameRate)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	actual, linear, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}
	if len(actual.Heights) == 0 {
		return fmt.Errorf("no data in run %s", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(actual.Heights))

	printOverlay(actual.Heights, linear.Heights, "water height: actual vs linear (m)")
	printOverlay(actual.Temps, linear.Temps, "water temp: actual vs linear (deg)")
	return nil
}

func pngRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	actual, linear, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}

	cmp := sim.Comparison{
		Scenario:  sim.Scenario{Name: meta.Scenario, Height: meta.InitH, Temp: meta.InitT},
		Nonlinear: actual,
		Linear:    linear,
	}

	paths, err := export.WriteComparison(outDir, cmp)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
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
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTEPS\tINIT\tHEIGHT RMS\tTEMP RMS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t(%.2f, %.1f)\t%.6f\t%.6f\n",
			run.ID, run.Scenario, run.Steps, run.InitH, run.InitT,
			run.Metrics["height_rms"], run.Metrics["temp_rms"])
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func printSeries(data []float64, caption string) {
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()
}

func printOverlay(actual, linear []float64, caption string) {
	graph := asciigraph.PlotMany(
		[][]float64{actual, linear},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Orange),
	)
	fmt.Println(graph)
	fmt.Println()
}
