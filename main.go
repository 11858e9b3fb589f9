package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/kinseg/config"
	"github.com/pthm-cable/kinseg/sim"
	"github.com/pthm-cable/kinseg/telemetry"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "kinseg",
		Short: "Kinetic segregation Monte Carlo simulation of the immunological synapse",
		Long: `kinseg simulates TCR, CD45 and pMHC molecules between a T cell and an
antigen-presenting cell, evolving the membrane gap and protein positions
with Metropolis Monte Carlo.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		RunE:  runSimulation,
	}

	placeCmd = &cobra.Command{
		Use:   "place",
		Short: "Place molecules with the configured distributions and print their coordinates as CSV",
		RunE:  runPlace,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as YAML",
		RunE:  runConfigDump,
	}
)

// run flags
var (
	seed            int64
	maxSteps        int
	outputDir       string
	snapshotDir     string
	view            bool
	logLocations    bool
	checkInvariants bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")

	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Stop after N steps (0 = time.total / time.step)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory for CSV logs, plot and config snapshot (a run-ID subdirectory is created)")
	runCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Directory for per-window lattice snapshots")
	runCmd.Flags().BoolVar(&view, "view", false, "Open the graphical lattice viewer")
	runCmd.Flags().BoolVar(&logLocations, "log-locations", false, "Log every protein location each step at info level")
	runCmd.Flags().BoolVar(&checkInvariants, "check-invariants", false, "Verify lattice invariants after every sweep")

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(runCmd, placeCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs a JSON slog handler on stderr at the requested level.
// Stdout is left for command output.
func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func resolveSeed() int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	runID := uuid.NewString()
	dir := outputDir
	if dir != "" {
		dir = filepath.Join(dir, runID)
	}

	opts := sim.Options{
		Seed:            resolveSeed(),
		RunID:           runID,
		LogLocations:    logLocations,
		CheckInvariants: checkInvariants,
		OutputDir:       dir,
		SnapshotDir:     snapshotDir,
		Logger:          slog.Default(),
	}

	e, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if dir != "" {
		slog.Info("writing output", "dir", dir, "run_id", runID)
	}

	if view {
		return runView(e, cfg, maxSteps)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return e.Run(ctx, maxSteps)
}

func runPlace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	e, err := sim.NewEmpty(cfg, sim.Options{Seed: resolveSeed(), Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.Populate(); err != nil {
		return err
	}

	var rows []telemetry.PositionRecord
	for _, p := range e.Proteins() {
		rows = append(rows, telemetry.PositionRecord{ID: p.ID, Kind: p.Kind, X: p.X, Y: p.Y})
	}
	for _, l := range e.Snapshot().Ligands {
		rows = append(rows, telemetry.PositionRecord{Kind: "pMHC", X: l.X, Y: l.Y})
	}
	return gocsv.Marshal(rows, cmd.OutOrStdout())
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
