// Package sim runs the kinetic segregation Monte Carlo simulation.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/config"
	"github.com/pthm-cable/kinseg/systems"
	"github.com/pthm-cable/kinseg/telemetry"
)

// Options configures an Engine beyond the simulation config.
type Options struct {
	Seed            int64
	RunID           string
	LogLocations    bool // log every protein location at Info each step (Debug otherwise)
	CheckInvariants bool // verify lattice invariants after every sweep
	OutputDir       string
	SnapshotDir     string
	Logger          *slog.Logger
}

// Engine owns the simulation state: the protein world, both membranes, the
// energy cache, and the random streams driving the Monte Carlo sweeps.
type Engine struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	rng         *rand.Rand
	metropolis  *systems.Metropolis
	sampler     *systems.StepSampler
	distributor *systems.Distributor

	world         *ecs.World
	proteinMapper *ecs.Map2[components.Location, components.Protein]
	protMap       *ecs.Map1[components.Protein]
	proteins      []ecs.Entity // ID order; proposals and commits follow it
	nextID        uint32

	heights  *systems.HeightField
	membrane *systems.ProteinLattice
	ligands  *systems.LigandLattice
	energy   *systems.EnergyCache

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	series    *telemetry.Series

	step        int
	initialized bool
	proposals   []proposal
}

// NewEmpty creates an engine with empty lattices and no proteins. Use
// AddProtein/AddLigand (or Populate) and then Init before stepping.
func NewEmpty(cfg *config.Config, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), 0x6b73))
	world := ecs.NewWorld()

	size := cfg.Lattice.Size
	heights := systems.NewHeightField(size, cfg.Lattice.CellSize, cfg.Membrane.BendingRigidity, cfg.Lattice.InitialHeight)

	e := &Engine{
		cfg:    cfg,
		opts:   opts,
		logger: logger,

		rng:         rng,
		metropolis:  systems.NewMetropolis(rng),
		sampler:     systems.NewStepSampler(rng),
		distributor: systems.NewDistributor(rng),

		world:         world,
		proteinMapper: ecs.NewMap2[components.Location, components.Protein](world),
		protMap:       ecs.NewMap1[components.Protein](world),

		heights:  heights,
		membrane: systems.NewProteinLattice(heights),
		ligands:  systems.NewLigandLattice(size),
		energy:   systems.NewEnergyCache(size),

		collector: telemetry.NewCollector(opts.RunID, cfg.Derived.StatsWindowSteps, cfg.Time.Step),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		series:    telemetry.NewSeries(),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	e.output = output
	if err := e.output.WriteConfig(cfg); err != nil {
		e.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	return e, nil
}

// New creates an engine, places all molecules with the configured
// distributions, and runs initialisation. Placement failures are fatal.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	e, err := NewEmpty(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := e.Populate(); err != nil {
		e.Close()
		return nil, err
	}
	e.Init()
	return e, nil
}

// Config returns the simulation config.
func (e *Engine) Config() *config.Config { return e.cfg }

// Size returns the lattice side length.
func (e *Engine) Size() int { return e.cfg.Lattice.Size }

// StepIndex returns the number of completed Monte Carlo steps.
func (e *Engine) StepIndex() int { return e.step }

// TotalSteps returns the configured number of steps for a full run.
func (e *Engine) TotalSteps() int { return e.cfg.Derived.NumSteps }

// Height returns the gap height at (x, y).
func (e *Engine) Height(x, y int) float64 { return e.heights.At(x, y) }

// HeightValues returns a row-major copy of the height field.
func (e *Engine) HeightValues() []float64 { return e.heights.Values() }

// CachedEnergy returns the energy cache value at (x, y).
func (e *Engine) CachedEnergy(x, y int) float64 { return e.energy.At(x, y) }

// HasLigand reports whether the APC lattice holds a ligand at (x, y).
func (e *Engine) HasLigand(x, y int) bool { return e.ligands.HasLigand(x, y) }

// NumProteins returns the number of proteins on the T-cell lattice.
func (e *Engine) NumProteins() int { return len(e.proteins) }

// ProteinAt returns a copy of the protein occupying (x, y).
func (e *Engine) ProteinAt(x, y int) (components.Protein, bool) {
	ent, ok := e.membrane.MoleculeAt(x, y)
	if !ok {
		return components.Protein{}, false
	}
	return *e.protMap.Get(ent), true
}

// Proteins returns the state of every protein in ID order.
func (e *Engine) Proteins() []telemetry.ProteinState {
	out := make([]telemetry.ProteinState, len(e.proteins))
	for i, ent := range e.proteins {
		loc, p := e.proteinMapper.Get(ent)
		out[i] = telemetry.ProteinState{ID: p.ID, Kind: p.Kind.String(), X: loc.X, Y: loc.Y, Bound: p.Bound}
	}
	return out
}

// RecordFrame marks a rendered frame for the perf stats in graphical mode.
func (e *Engine) RecordFrame() { e.perf.RecordFrame() }

// AcceptanceRates returns the Metropolis acceptance of height and diffusion
// proposals over the perf window.
func (e *Engine) AcceptanceRates() (height, move float64) {
	stats := e.perf.Stats()
	return stats.Phase(telemetry.PhaseHeightSweep).AcceptRate, stats.Phase(telemetry.PhaseDiffusion).AcceptRate
}

// Close flushes any buffered output.
func (e *Engine) Close() error {
	return e.output.Close()
}
