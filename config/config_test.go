package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Lattice.Size)
	assert.Equal(t, 10.0, cfg.Lattice.CellSize)
	assert.Equal(t, 70.0, cfg.Lattice.InitialHeight)
	assert.Equal(t, 25.0, cfg.Membrane.BendingRigidity)
	assert.Equal(t, 125, cfg.TCR.Count)
	assert.Equal(t, 13.0, cfg.TCR.Length)
	assert.Equal(t, 500, cfg.CD45.Count)
	assert.Equal(t, 50.0, cfg.CD45.Length)
	assert.Equal(t, -10.0, cfg.CD45.BindingEnergy)
	assert.Equal(t, BindingRangeGated, cfg.CD45.BindingRangeMode)
	assert.Equal(t, 300, cfg.PMHC.Count)

	assert.Equal(t, 10000, cfg.Derived.NumSteps)
	assert.Equal(t, 100, cfg.Derived.StatsWindowSteps)
}

func TestDerivedPlacement(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	tcr := cfg.Derived.TCRPlacement
	assert.Equal(t, PolicyCircle, tcr.Policy)
	assert.Equal(t, 100, tcr.CenterX)
	assert.Equal(t, 100, tcr.CenterY)
	assert.InDelta(t, 12.5, tcr.Radius, 1e-12)

	cd45 := cfg.Derived.CD45Placement
	assert.Equal(t, PolicyUniform, cd45.Policy)
	assert.InDelta(t, 50.0, cd45.Radius, 1e-12, "default radius is a quarter of the lattice")
}

func TestDiffusionSigma(t *testing.T) {
	// Matches sqrt(0.01 * D * 4) at dt = 0.01.
	assert.InDelta(t, math.Sqrt(0.01*10000*4), DiffusionSigma(10000, 0.01), 1e-12)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, cfg.Derived.TCRSigma, 1e-9)
	assert.InDelta(t, math.Sqrt(440), cfg.Derived.CD45Sigma, 1e-9)
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte(`
lattice:
  size: 32
cd45:
  count: 10
  distribution:
    policy: semicircle
    center: [5, 6]
    radius: 4
time:
  total: 1.0
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Lattice.Size)
	assert.Equal(t, 10.0, cfg.Lattice.CellSize, "unset fields keep defaults")
	assert.Equal(t, 10, cfg.CD45.Count)
	assert.Equal(t, 50.0, cfg.CD45.Length)
	assert.Equal(t, 100, cfg.Derived.NumSteps)

	p := cfg.Derived.CD45Placement
	assert.Equal(t, PolicySemicircle, p.Policy)
	assert.Equal(t, 5, p.CenterX)
	assert.Equal(t, 6, p.CenterY)
	assert.Equal(t, 4.0, p.Radius)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero lattice", func(c *Config) { c.Lattice.Size = 0 }},
		{"zero time step", func(c *Config) { c.Time.Step = 0 }},
		{"negative count", func(c *Config) { c.TCR.Count = -1 }},
		{"unknown policy", func(c *Config) { c.CD45.Distribution.Policy = "spiral" }},
		{"unknown binding mode", func(c *Config) { c.CD45.BindingRangeMode = "sometimes" }},
		{"bad center", func(c *Config) { c.CD45.Distribution.Center = []int{1} }},
		{"overfull lattice", func(c *Config) {
			c.Lattice.Size = 10
			c.TCR.Count = 60
			c.CD45.Count = 41
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Finalize()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Lattice.Size = 64
	require.NoError(t, cfg.Finalize())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, reloaded.Lattice.Size)
	assert.Equal(t, cfg.Derived, reloaded.Derived)
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	assert.Panics(t, func() { Cfg() })
	MustInit("")
	assert.NotNil(t, Cfg())
}
