package systems

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// HeightField is the inter-membrane gap on a size x size torus.
// Heights are unbounded; the Monte Carlo engine drives them.
type HeightField struct {
	size     int
	cellSize float64 // nm per cell
	rigidity float64 // bending rigidity in kBT

	h    *mat.Dense
	step *mat.Dense // scratch for ProposeStep
}

// NewHeightField creates a field with every cell at the initial height.
func NewHeightField(size int, cellSize, rigidity, initial float64) *HeightField {
	data := make([]float64, size*size)
	for i := range data {
		data[i] = initial
	}
	return &HeightField{
		size:     size,
		cellSize: cellSize,
		rigidity: rigidity,
		h:        mat.NewDense(size, size, data),
		step:     mat.NewDense(size, size, nil),
	}
}

// Size returns the number of cells per side.
func (f *HeightField) Size() int { return f.size }

// CellSize returns the lattice spacing in nm.
func (f *HeightField) CellSize() float64 { return f.cellSize }

// At returns the height at (x, y), wrapping out-of-range coordinates.
func (f *HeightField) At(x, y int) float64 {
	x, y = Wrap(x, y, f.size)
	return f.h.At(x, y)
}

// Set overwrites the height at (x, y), wrapping out-of-range coordinates.
func (f *HeightField) Set(x, y int, h float64) {
	x, y = Wrap(x, y, f.size)
	f.h.Set(x, y, h)
}

// BendingEnergy returns the discrete Laplacian-squared penalty at (x, y)
// if that cell had height h, using the current heights of its neighbours.
func (f *HeightField) BendingEnergy(x, y int, h float64) float64 {
	var sum float64
	for _, n := range Neighbors(x, y, f.size) {
		sum += f.h.At(n.X, n.Y)
	}
	lap := sum - 4*h
	return lap * lap * f.rigidity / (2 * f.cellSize * f.cellSize)
}

// ProposeStep fills a size x size matrix with independent Normal(0, 1)
// perturbations, one per cell. The returned matrix is reused by the next call.
func (f *HeightField) ProposeStep(src rand.Source) *mat.Dense {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	raw := f.step.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j := range row {
			row[j] = normal.Rand()
		}
	}
	return f.step
}

// Values returns a copy of all heights in row-major order.
func (f *HeightField) Values() []float64 {
	out := make([]float64, 0, f.size*f.size)
	for i := 0; i < f.size; i++ {
		out = append(out, f.h.RawRowView(i)...)
	}
	return out
}
