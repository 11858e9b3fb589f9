package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/config"
)

func TestRelaxHeightsSeesEarlierCommits(t *testing.T) {
	e := newTestEngine(t, 6, nil)
	e.Init()
	require.Equal(t, 0.0, e.CachedEnergy(0, 1))

	perturb := mat.NewDense(6, 6, nil)
	perturb.Set(0, 0, 3)
	// Inflated caches make both candidates downhill so neither draw can reject.
	e.energy.Set(0, 0, 1e6)
	e.energy.Set(0, 1, 1e6)

	e.relaxHeights(perturb)

	assert.Equal(t, 73.0, e.Height(0, 0))
	assert.Equal(t, e.heights.BendingEnergy(0, 0, 73), e.CachedEnergy(0, 0))

	// (0, 1) is visited after (0, 0) and must see its new height.
	assert.Equal(t, 70.0, e.Height(0, 1))
	assert.InDelta(t, 9*25.0/200, e.CachedEnergy(0, 1), 1e-12)
	assert.Equal(t, e.heights.BendingEnergy(0, 1, 70), e.CachedEnergy(0, 1))
}

func TestRelaxHeightsRejectsUphill(t *testing.T) {
	e := newTestEngine(t, 6, nil)
	e.Init()

	perturb := mat.NewDense(6, 6, nil)
	perturb.Set(3, 3, 1e3) // bending penalty of order 1e6 kT
	height, cache := e.Height(3, 3), e.CachedEnergy(3, 3)

	trials, accepted := e.relaxHeights(perturb)

	assert.Equal(t, height, e.Height(3, 3))
	assert.Equal(t, cache, e.CachedEnergy(3, 3))
	assert.Equal(t, 36, trials)
	// Zero perturbations have zero delta and are always taken.
	assert.Equal(t, 35, accepted)
	require.NoError(t, e.CheckInvariants())
}

func TestRelaxHeightsSkipsBoundCells(t *testing.T) {
	e := newTestEngine(t, 6, nil)
	_, err := e.AddProtein(components.KindTCR, 2, 2)
	require.NoError(t, err)
	require.NoError(t, e.AddLigand(2, 2))
	e.Init()

	perturb := mat.NewDense(6, 6, nil)
	perturb.Set(2, 2, -5)

	trials, _ := e.relaxHeights(perturb)

	assert.Equal(t, 35, trials)
	assert.Equal(t, 13.0, e.Height(2, 2))
	require.NoError(t, e.CheckInvariants())
}

func TestDiffusionUsesSpeciesStepScale(t *testing.T) {
	cfg := testConfig(t, 12, func(c *config.Config) {
		c.TCR.Count = 5
		c.TCR.Distribution = config.DistributionConfig{Policy: config.PolicyUniform}
		c.CD45.Count = 5
		c.Time.Total = 0.1
	})
	cfg.Derived.TCRSigma = 0
	e, err := New(cfg, Options{Seed: 5})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 0.0, e.stepSigma(components.KindTCR))
	assert.Equal(t, cfg.Derived.CD45Sigma, e.stepSigma(components.KindCD45))

	tcrs := func() []int {
		var at []int
		for _, s := range e.Proteins() {
			if s.Kind == components.KindTCR.String() {
				at = append(at, s.X, s.Y)
			}
		}
		return at
	}
	before := tcrs()
	require.NoError(t, e.Run(context.Background(), 0))
	assert.Equal(t, before, tcrs())
}

func TestAcceptanceRatesFollowSweeps(t *testing.T) {
	e := populated(t, 3)

	height, move := e.AcceptanceRates()
	assert.Zero(t, height)
	assert.Zero(t, move)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Step())
	}

	height, move = e.AcceptanceRates()
	assert.Greater(t, height, 0.0)
	assert.LessOrEqual(t, height, 1.0)
	assert.GreaterOrEqual(t, move, 0.0)
	assert.LessOrEqual(t, move, 1.0)
}
