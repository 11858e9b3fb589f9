package systems

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/kinseg/components"
	"github.com/pthm-cable/kinseg/config"
)

// ErrInsufficientCapacity is returned when a distribution region has fewer
// empty cells than requested molecules.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// Grid is a lattice the Distributor can sample empty cells from.
type Grid interface {
	Size() int
	IsEmpty(x, y int) bool
}

// Distributor samples distinct empty cells for initial placement.
type Distributor struct {
	rng *rand.Rand
}

// NewDistributor creates a distributor drawing from rng.
func NewDistributor(rng *rand.Rand) *Distributor {
	return &Distributor{rng: rng}
}

// Uniform samples n distinct empty cells from the whole grid.
func (d *Distributor) Uniform(g Grid, n int) ([]components.Location, error) {
	candidates := collect(g, func(x, y int) bool { return true })
	return d.sample(candidates, n, config.PolicyUniform)
}

// Circle samples n distinct empty cells within radius r of (cx, cy).
func (d *Distributor) Circle(g Grid, n, cx, cy int, r float64) ([]components.Location, error) {
	candidates := collect(g, func(x, y int) bool { return inCircle(x, y, cx, cy, r) })
	return d.sample(candidates, n, config.PolicyCircle)
}

// Semicircle samples n distinct empty cells within radius r of (cx, cy) with y >= cy.
func (d *Distributor) Semicircle(g Grid, n, cx, cy int, r float64) ([]components.Location, error) {
	candidates := collect(g, func(x, y int) bool { return y >= cy && inCircle(x, y, cx, cy, r) })
	return d.sample(candidates, n, config.PolicySemicircle)
}

// Place dispatches on a resolved placement policy.
func (d *Distributor) Place(g Grid, n int, p config.Placement) ([]components.Location, error) {
	switch p.Policy {
	case config.PolicyUniform:
		return d.Uniform(g, n)
	case config.PolicyCircle:
		return d.Circle(g, n, p.CenterX, p.CenterY, p.Radius)
	case config.PolicySemicircle:
		return d.Semicircle(g, n, p.CenterX, p.CenterY, p.Radius)
	default:
		return nil, fmt.Errorf("unknown distribution policy %q", p.Policy)
	}
}

func inCircle(x, y, cx, cy int, r float64) bool {
	dx, dy := float64(x-cx), float64(y-cy)
	return dx*dx+dy*dy <= r*r
}

// collect lists empty cells passing keep in row-major order.
func collect(g Grid, keep func(x, y int) bool) []components.Location {
	size := g.Size()
	var out []components.Location
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if g.IsEmpty(x, y) && keep(x, y) {
				out = append(out, components.Location{X: x, Y: y})
			}
		}
	}
	return out
}

// sample draws n distinct entries with a partial Fisher-Yates shuffle.
func (d *Distributor) sample(candidates []components.Location, n int, policy string) ([]components.Location, error) {
	if n < 0 {
		return nil, fmt.Errorf("%s placement: negative molecule count %d", policy, n)
	}
	if n > len(candidates) {
		return nil, fmt.Errorf("%s placement: %d molecules for %d empty cells: %w",
			policy, n, len(candidates), ErrInsufficientCapacity)
	}
	for i := 0; i < n; i++ {
		j := i + d.rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n:n], nil
}
