package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// StepSampler draws isotropic 2-D diffusion displacements: a uniform angle in
// [0, 2pi) and a half-normal magnitude.
type StepSampler struct {
	src   rand.Source
	angle distuv.Uniform
}

// NewStepSampler creates a sampler drawing from src.
func NewStepSampler(src rand.Source) *StepSampler {
	return &StepSampler{
		src:   src,
		angle: distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
	}
}

// Displacement returns one displacement in nm for step scale sigma.
func (s *StepSampler) Displacement(sigma float64) (dx, dy float64) {
	theta := s.angle.Rand()
	r := 0.0
	if sigma > 0 {
		r = math.Abs(distuv.Normal{Mu: 0, Sigma: sigma, Src: s.src}.Rand())
	}
	return math.Cos(theta) * r, math.Sin(theta) * r
}

// Destination converts a displacement in nm into a destination cell, flooring
// to whole cells and wrapping around the torus.
func Destination(x, y int, dx, dy, cellSize float64, size int) (int, int) {
	nx := x + int(math.Floor(dx/cellSize))
	ny := y + int(math.Floor(dy/cellSize))
	return Wrap(nx, ny, size)
}
