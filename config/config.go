// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Distribution policy names.
const (
	PolicyUniform    = "uniform"
	PolicyCircle     = "circle"
	PolicySemicircle = "semicircle"
)

// Binding range mode names.
const (
	BindingRangeGated  = "gated"
	BindingRangeAlways = "always"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Lattice   LatticeConfig   `yaml:"lattice"`
	Membrane  MembraneConfig  `yaml:"membrane"`
	Time      TimeConfig      `yaml:"time"`
	TCR       ProteinConfig   `yaml:"tcr"`
	CD45      ProteinConfig   `yaml:"cd45"`
	PMHC      LigandConfig    `yaml:"pmhc"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width" validate:"gt=0"`
	Height    int `yaml:"height" validate:"gt=0"`
	TargetFPS int `yaml:"target_fps" validate:"gt=0"`
}

// LatticeConfig holds the geometry shared by both membranes.
type LatticeConfig struct {
	Size          int     `yaml:"size" validate:"gt=0"`      // cells per side (both lattices are Size x Size)
	CellSize      float64 `yaml:"cell_size" validate:"gt=0"` // nm per cell
	InitialHeight float64 `yaml:"initial_height"`            // nm, initial gap everywhere
}

// MembraneConfig holds T-cell membrane mechanics.
type MembraneConfig struct {
	BendingRigidity float64 `yaml:"bending_rigidity" validate:"gte=0"` // kBT
}

// TimeConfig holds the integration schedule.
type TimeConfig struct {
	Step  float64 `yaml:"step" validate:"gt=0"`   // s per Monte Carlo step
	Total float64 `yaml:"total" validate:"gte=0"` // s simulated
}

// ProteinConfig holds per-species protein parameters.
// Binding fields are only read for CD45.
type ProteinConfig struct {
	Count            int                `yaml:"count" validate:"gte=0"`
	Length           float64            `yaml:"length" validate:"gte=0"`
	SpringConstant   float64            `yaml:"spring_constant" validate:"gte=0"`
	Diffusion        float64            `yaml:"diffusion" validate:"gte=0"` // nm^2/s
	BindingEnergy    float64            `yaml:"binding_energy"`
	BindingRange     float64            `yaml:"binding_range" validate:"gte=0"`
	BindingRangeMode string             `yaml:"binding_range_mode" validate:"omitempty,oneof=gated always"`
	SeedHeight       bool               `yaml:"seed_height"` // start occupied cells at the rest length
	Distribution     DistributionConfig `yaml:"distribution"`
}

// LigandConfig holds APC ligand (pMHC) placement.
type LigandConfig struct {
	Count        int                `yaml:"count" validate:"gte=0"`
	Distribution DistributionConfig `yaml:"distribution"`
}

// DistributionConfig selects the initial placement policy.
// Center defaults to the lattice centre. Radius wins over RadiusFraction;
// with neither set the radius is a quarter of the lattice size.
type DistributionConfig struct {
	Policy         string  `yaml:"policy" validate:"oneof=uniform circle semicircle"`
	Center         []int   `yaml:"center,omitempty" validate:"omitempty,len=2"`
	Radius         float64 `yaml:"radius,omitempty" validate:"gte=0"`
	RadiusFraction float64 `yaml:"radius_fraction,omitempty" validate:"gte=0"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow    float64 `yaml:"stats_window" validate:"gt=0"`    // s of simulated time
	PerfWindow     int     `yaml:"perf_window" validate:"gt=0"`     // steps
	PositionsEvery int     `yaml:"positions_every" validate:"gte=0"` // steps between positions.csv rows (0 = off)
}

// Placement is a distribution resolved against the lattice size.
type Placement struct {
	Policy  string
	CenterX int
	CenterY int
	Radius  float64
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumSteps         int     // Time.Total / Time.Step
	StatsWindowSteps int     // Telemetry.StatsWindow / Time.Step, at least 1
	TCRSigma         float64 // diffusion step scale for TCR (nm)
	CD45Sigma        float64 // diffusion step scale for CD45 (nm)
	TCRPlacement     Placement
	CD45Placement    Placement
	PMHCPlacement    Placement
}

// global holds the loaded configuration.
var global *Config

var validate = validator.New()

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it again after changing fields programmatically.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	occupied := c.TCR.Count + c.CD45.Count
	if capacity := c.Lattice.Size * c.Lattice.Size; occupied > capacity {
		return fmt.Errorf("%w: %d proteins exceed %d lattice cells", ErrInvalid, occupied, capacity)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Small epsilon so 100/0.01 lands on 10000 rather than 9999
	c.Derived.NumSteps = int(math.Floor(c.Time.Total/c.Time.Step + 1e-9))

	c.Derived.StatsWindowSteps = int(math.Round(c.Telemetry.StatsWindow / c.Time.Step))
	if c.Derived.StatsWindowSteps < 1 {
		c.Derived.StatsWindowSteps = 1
	}

	c.Derived.TCRSigma = DiffusionSigma(c.TCR.Diffusion, c.Time.Step)
	c.Derived.CD45Sigma = DiffusionSigma(c.CD45.Diffusion, c.Time.Step)

	c.Derived.TCRPlacement = c.TCR.Distribution.resolve(c.Lattice.Size)
	c.Derived.CD45Placement = c.CD45.Distribution.resolve(c.Lattice.Size)
	c.Derived.PMHCPlacement = c.PMHC.Distribution.resolve(c.Lattice.Size)
}

// DiffusionSigma returns the 2-D step scale sqrt(4*D*dt) for diffusion constant d.
func DiffusionSigma(d, dt float64) float64 {
	return math.Sqrt(4 * d * dt)
}

func (d DistributionConfig) resolve(size int) Placement {
	p := Placement{Policy: d.Policy, CenterX: size / 2, CenterY: size / 2}
	if len(d.Center) == 2 {
		p.CenterX, p.CenterY = d.Center[0], d.Center[1]
	}
	switch {
	case d.Radius > 0:
		p.Radius = d.Radius
	case d.RadiusFraction > 0:
		p.Radius = float64(size) * d.RadiusFraction
	default:
		p.Radius = float64(size / 4)
	}
	return p
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
