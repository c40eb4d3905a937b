package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbsim/internal/analysis"
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/export"
	"github.com/san-kum/orbsim/internal/ingest"
	"github.com/san-kum/orbsim/internal/integrators"
	"github.com/san-kum/orbsim/internal/metrics"
	"github.com/san-kum/orbsim/internal/optim"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/storage"
	"github.com/san-kum/orbsim/internal/telemetry"
	"github.com/san-kum/orbsim/internal/viz"
)

// resolveConfig layers the config file, the preset and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	flags := cmd.Flags()
	if flags.Changed("orbits") {
		cfg.Orbits = orbits
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if len(args) > 0 {
		cfg.DataFile = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if configFile != "" && !flags.Changed("log-level") && !flags.Changed("log-format") {
		l, err := newLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return nil, err
		}
		logger = l
	}
	return cfg, nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sys, err := ingest.LoadSystem(cfg.DataFile, cfg.Bodies, logger)
	if err != nil {
		return err
	}
	if err := sys.InitializeAll(); err != nil {
		return err
	}

	collector := telemetry.New()
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: collector.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	logger.Info("propagating", "bodies", len(sys.Bodies()), "orbits", cfg.Orbits, "workers", cfg.Workers)
	start := time.Now()

	result, err := sys.Run(ctx, orbit.RunOptions{
		Orbits:    cfg.Orbits,
		Workers:   cfg.Workers,
		Observers: []orbit.Observer{collector},
		Metrics:   metrics.Default,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Label:    label,
		DataFile: cfg.DataFile,
		Orbits:   cfg.Orbits,
		Workers:  cfg.Workers,
	}, sys, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSAMPLES\tENERGY DRIFT\tH DRIFT\tENVELOPE\tMEAN ITERS")
	for _, b := range sys.Bodies() {
		br := result.Bodies[b.Path()]
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.3e\t%.2f\n",
			b.Path(),
			br.Samples,
			br.Metrics["energy_drift"],
			br.Metrics["angular_momentum_drift"],
			br.Metrics["radius_envelope"],
			br.Metrics["kepler_iterations"],
		)
	}
	return w.Flush()
}

func listBodies(cmd *cobra.Command, args []string) error {
	path := config.DefaultDataFile
	if len(args) > 0 {
		path = args[0]
	}
	sys, err := ingest.LoadSystem(path, bodies, logger)
	if err != nil {
		return err
	}
	if err := sys.InitializeAll(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tKIND\tA (KM)\tE\tI (DEG)\tPERIOD (D)\tSTEP (S)\tEPOCH OFFSET (D)")
	for _, b := range sys.Bodies() {
		el, d := b.Elements(), b.Derived()
		fmt.Fprintf(w, "%s\t%s\t%.6g\t%.5f\t%.3f\t%.3f\t%.1f\t%.3f\n",
			b.Path(),
			b.Kind(),
			el.SemimajorAxis,
			el.Eccentricity,
			el.Inclination*180/math.Pi,
			d.Period/86400,
			d.Step,
			b.EpochOffset()/86400,
		)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tTIME\tDATA\tORBITS\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DataFile,
			run.Orbits,
			len(run.Bodies),
		)
	}
	return w.Flush()
}

func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
}

// sceneTracks picks the tracks of one view: the planets around the central
// body, or the moons of the focused planet around it.
func sceneTracks(tracks []*storage.Track) []*storage.Track {
	var out []*storage.Track
	for _, t := range tracks {
		parent, _, isMoon := strings.Cut(t.Body, "/")
		switch {
		case focus == "" && !isMoon:
			out = append(out, t)
		case focus != "" && isMoon && strings.EqualFold(parent, focus):
			out = append(out, t)
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	meta, tracks, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}

	shown := sceneTracks(tracks)
	if len(shown) == 0 {
		return fmt.Errorf("no tracks to plot in %s", runID)
	}

	scene := viz.NewScene(width, height, viz.GetTheme(themeName))
	for _, t := range shown {
		scene.Add(t.Body, t.Positions)
	}
	scene.Fit()
	if side {
		scene.Camera.SideView()
	}

	fmt.Println(viz.HeaderStyle.Render("run " + meta.ID))
	fmt.Println(scene.Render())

	if svgPath != "" {
		if err := export.WriteSVGFile(svgPath, scene, 800); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}
	meta, tracks, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}
	if _, ok := integrators.Get(integratorName); !ok {
		return fmt.Errorf("unknown integrator: %s", integratorName)
	}

	for _, t := range tracks {
		if exportBody != "" && t.Body != exportBody {
			continue
		}
		bm, _ := meta.Body(t.Body)
		fmt.Println(viz.HeaderStyle.Render(t.Body))

		radii := t.Radii()
		fmt.Println(asciigraph.Plot(radii,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("radius (km)"),
		))

		if period, err := analysis.DominantPeriod(radii, bm.Step); err == nil {
			fmt.Printf("%s %.4g s (orbital period %.4g s)\n",
				viz.MetricLabel.Render("dominant"), period, bm.Period)
		} else {
			fmt.Printf("%s %v\n", viz.MetricLabel.Render("dominant"), err)
		}

		if integ, ok := integrators.Get(integratorName); ok && t.Len() > 0 {
			if rep, err := integrators.CrossCheck(integ, t.Positions[0], t.Velocities[0], bm.Mu, 0); err == nil {
				fmt.Printf("%s %s closure %.3e, energy drift %.3e\n",
					viz.MetricLabel.Render("numeric"), rep.Integrator, rep.Closure, rep.EnergyDrift)
			} else {
				fmt.Printf("%s %v\n", viz.MetricLabel.Render("numeric"), err)
			}
		}

		crossings := analysis.NodeCrossings(t.Times, t.Positions)
		fmt.Printf("%s %d\n", viz.MetricLabel.Render("asc. nodes"), len(crossings))
		for _, c := range crossings {
			fmt.Printf("  t=%.6g s  (%.4g, %.4g) km\n", c.Time, c.Position[0], c.Position[1])
		}

		fmt.Println(analysis.PhasePortraitToASCII(analysis.RadialPortrait(t.Positions, t.Velocities), 60, 16))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0], exportBody)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func runLive(cmd *cobra.Command, args []string) error {
	path := config.DefaultDataFile
	if len(args) > 0 {
		path = args[0]
	}
	sys, err := ingest.LoadSystem(path, bodies, logger)
	if err != nil {
		return err
	}
	if err := sys.InitializeAll(); err != nil {
		return err
	}

	model, err := viz.NewModel(sys, viz.LiveOptions{
		Width:  width,
		Height: height,
		Theme:  themeName,
		Focus:  focus,
		Side:   side,
	})
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func sweepSolver(cmd *cobra.Command, args []string) error {
	if sweepEMax < 0 || sweepEMax >= 1 {
		return fmt.Errorf("e-max must be in [0, 1), got %g", sweepEMax)
	}
	ecc := optim.Linspace(0, sweepEMax, sweepE)
	// Mean anomaly is sampled over [0, 2π) without the duplicate endpoint.
	anom := optim.Linspace(0, 2*math.Pi*float64(sweepM-1)/float64(sweepM), sweepM)

	start := time.Now()
	rep, err := optim.SweepSolver(cmd.Context(), ecc, anom)
	if err != nil {
		return err
	}

	fmt.Printf("%s %d in %v\n", viz.MetricLabel.Render("points"), rep.Points, time.Since(start))
	fmt.Printf("%s %d\n", viz.MetricLabel.Render("failures"), rep.Failures)
	fmt.Printf("%s %.2f\n", viz.MetricLabel.Render("mean iters"), rep.MeanIters)
	fmt.Printf("%s %d at e=%.4f M=%.4f\n", viz.MetricLabel.Render("max iters"), rep.MaxIters, rep.WorstE, rep.WorstM)
	fmt.Printf("%s %.3e rad\n", viz.MetricLabel.Render("residual"), rep.MaxResidual)
	fmt.Printf("%s %.3e rad\n", viz.MetricLabel.Render("vs meeus"), rep.MaxMeeus)
	return nil
}
