package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbsim/internal/config"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	preset     string

	orbits      int
	workers     int
	bodies      []string
	metricsAddr string
	label       string

	width      int
	height     int
	focus      string
	side       bool
	themeName  string
	svgPath    string
	exportBody string

	integratorName string

	sweepE    int
	sweepM    int
	sweepEMax float64
)

var logger = slog.Default()

// main registers the orbsim commands and exits with status 1 if the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orbsim",
		Short:         "keplerian orbit propagation for the solar system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", ".orbsim", "run storage directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [data_file]",
		Short: "propagate every body and store the tracks",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPropagation,
	}
	runCmd.Flags().IntVar(&orbits, "orbits", config.DefaultOrbits, "orbits per body")
	runCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "bodies propagated concurrently")
	runCmd.Flags().StringSliceVar(&bodies, "bodies", nil, "planets to load (default all)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the run")
	runCmd.Flags().StringVar(&label, "label", "", "run label")

	bodiesCmd := &cobra.Command{
		Use:   "bodies [data_file]",
		Short: "list the bodies of a data file with their derived orbits",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listBodies,
	}
	bodiesCmd.Flags().StringSliceVar(&bodies, "bodies", nil, "planets to load (default all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "draw the stored orbits of a run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	addViewFlags(plotCmd)
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the scene to an svg file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "radius spectrum, radial phase portrait and node crossings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&exportBody, "body", "", "body path to analyze (default all)")
	analyzeCmd.Flags().StringVar(&integratorName, "integrator", "rk4", "numeric cross-check integrator (euler, rk4, verlet)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export one body track to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&exportBody, "body", "", "body path, e.g. Earth or Earth/Moon")
	_ = exportCSVCmd.MarkFlagRequired("body")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and tracks to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [data_file]",
		Short: "propagate with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addViewFlags(liveCmd)
	liveCmd.Flags().StringSliceVar(&bodies, "bodies", nil, "planets to load (default all)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				sel := "all bodies"
				if len(p.Bodies) > 0 {
					sel = strings.Join(p.Bodies, ", ")
				}
				fmt.Printf("  %-10s %d orbit(s), %s\n", name, p.Orbits, sel)
			}
			return nil
		},
	}

	solverCmd := &cobra.Command{
		Use:   "solver",
		Short: "sweep the kepler solver over eccentricity and mean anomaly",
		RunE:  sweepSolver,
	}
	solverCmd.Flags().IntVar(&sweepE, "e-steps", 40, "eccentricity samples")
	solverCmd.Flags().IntVar(&sweepM, "m-steps", 360, "mean anomaly samples")
	solverCmd.Flags().Float64Var(&sweepEMax, "e-max", 0.99, "largest eccentricity")

	rootCmd.AddCommand(runCmd, bodiesCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, liveCmd, presetsCmd, solverCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas width in cells")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas height in cells")
	cmd.Flags().StringVar(&focus, "focus", "", "show the moons of this planet")
	cmd.Flags().BoolVar(&side, "side", false, "side projection (x-z plane)")
	cmd.Flags().StringVar(&themeName, "theme", "solar", "color theme")
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
